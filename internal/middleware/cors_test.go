package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCORSApp(config CORSConfig) *fiber.App {
	app := fiber.New()
	app.Use(NewCORSMiddleware(config).Handler())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestCORS(t *testing.T) {
	t.Run("no origin passes through untouched", func(t *testing.T) {
		app := newCORSApp(DefaultCORSConfig())

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		assert.Equal(t, 200, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		app := newCORSApp(DefaultCORSConfig())

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://ui.example.com")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), HeaderTraceID)
	})

	t.Run("preflight advertises trace headers", func(t *testing.T) {
		app := newCORSApp(DefaultCORSConfig())

		req := httptest.NewRequest("OPTIONS", "/", nil)
		req.Header.Set("Origin", "https://ui.example.com")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "traceparent")
		assert.Equal(t, "86400", resp.Header.Get("Access-Control-Max-Age"))
	})

	t.Run("subdomain pattern reflects origin", func(t *testing.T) {
		config := DefaultCORSConfig()
		config.AllowOrigins = []string{"*.example.com"}
		app := newCORSApp(config)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://ui.example.com")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "https://ui.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", resp.Header.Get("Vary"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		config := DefaultCORSConfig()
		config.AllowOrigins = []string{"https://ui.example.com"}
		app := newCORSApp(config)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.test")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, 200, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
