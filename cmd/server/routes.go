package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agenttrace/webservice/internal/middleware"
)

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	deps.HealthHandler.RegisterRoutes(app)

	if deps.Config.Metrics.Enabled {
		app.Get(deps.Config.Metrics.Path, middleware.PrometheusHandler())
	}

	deps.RequestHandler.RegisterRoutes(app)
}
