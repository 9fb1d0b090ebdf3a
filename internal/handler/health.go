package handler

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Processing modes reported by the health endpoint
const (
	ModeUpstream = "upstream"
	ModeDelay    = "delay"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	version      string
	mode         string
	startTime    time.Time
	shuttingDown atomic.Bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, upstreamConfigured bool) *HealthHandler {
	mode := ModeDelay
	if upstreamConfigured {
		mode = ModeUpstream
	}
	return &HealthHandler{
		version:   version,
		mode:      mode,
		startTime: time.Now(),
	}
}

// HealthStatus represents health check status
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Mode      string `json:"mode"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// SetShuttingDown marks the service as draining; readiness fails from then on
func (h *HealthHandler) SetShuttingDown() {
	h.shuttingDown.Store(true)
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Mode:      h.mode,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.shuttingDown.Load() {
		status.Status = "shutting down"
	}

	return c.JSON(status)
}

// Liveness handles GET /livez - basic liveness probe
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// Readiness handles GET /readyz - readiness probe
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	if h.shuttingDown.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"reason": "shutting down",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
	})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/healthz", h.Health)
	app.Get("/livez", h.Liveness)
	app.Get("/readyz", h.Readiness)
	app.Get("/version", h.Version)
}
