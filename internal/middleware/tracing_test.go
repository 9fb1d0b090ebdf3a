package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agenttrace/webservice/internal/pkg/errors"
	"github.com/agenttrace/webservice/internal/testutil"
)

func newTracedApp(t *testing.T) (*fiber.App, *tracetest.SpanRecorder) {
	t.Helper()
	tp, recorder := testutil.NewRecordingProvider()

	app := fiber.New()
	app.Use(RequestID())
	app.Use(NewTracingMiddleware(DefaultTracingConfig(tp)).Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		_, span := tp.Tracer("handler").Start(c.UserContext(), "child")
		span.End()
		return c.SendString(c.Params("id"))
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return apperrors.UpstreamFailure("http://upstream", apperrors.ReasonBadStatus)
	})
	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app, recorder
}

func serverSpan(t *testing.T, recorder *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range recorder.Ended() {
		if s.SpanKind() == trace.SpanKindServer {
			return s
		}
	}
	require.FailNow(t, "no server span recorded")
	return nil
}

func TestTracingMiddleware(t *testing.T) {
	t.Run("server span is named after the route and parents handler spans", func(t *testing.T) {
		app, recorder := newTracedApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/items/7", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		server := serverSpan(t, recorder)
		assert.Equal(t, "GET /items/:id", server.Name())
		assert.Equal(t, server.SpanContext().TraceID().String(), resp.Header.Get(HeaderTraceID))

		route, ok := testutil.Attribute(server, "http.route")
		require.True(t, ok)
		assert.Equal(t, "/items/:id", route.AsString())
		status, ok := testutil.Attribute(server, "http.response.status_code")
		require.True(t, ok)
		assert.Equal(t, int64(200), status.AsInt64())
		_, ok = testutil.Attribute(server, "request.id")
		assert.True(t, ok)

		children := testutil.EndedSpansNamed(recorder, "child")
		require.Len(t, children, 1)
		assert.Equal(t, server.SpanContext().SpanID(), children[0].Parent().SpanID())
	})

	t.Run("incoming traceparent is continued", func(t *testing.T) {
		app, recorder := newTracedApp(t)

		req := httptest.NewRequest("GET", "/items/1", nil)
		req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
		_, err := app.Test(req)
		require.NoError(t, err)

		server := serverSpan(t, recorder)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", server.SpanContext().TraceID().String())
		assert.Equal(t, "00f067aa0ba902b7", server.Parent().SpanID().String())
		assert.True(t, server.Parent().IsRemote())
	})

	t.Run("5xx errors mark the span", func(t *testing.T) {
		app, recorder := newTracedApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
		require.NoError(t, err)
		assert.Equal(t, 502, resp.StatusCode)

		server := serverSpan(t, recorder)
		assert.Equal(t, codes.Error, server.Status().Code)
		assert.Contains(t, testutil.EventNames(server), "exception")
	})

	t.Run("unmatched paths keep the raw path", func(t *testing.T) {
		app, recorder := newTracedApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		server := serverSpan(t, recorder)
		assert.Equal(t, "GET /nope", server.Name())
		assert.Equal(t, codes.Unset, server.Status().Code)
	})

	t.Run("health routes are not traced", func(t *testing.T) {
		app, recorder := newTracedApp(t)

		_, err := app.Test(httptest.NewRequest("GET", "/livez", nil))
		require.NoError(t, err)

		assert.Empty(t, recorder.Ended())
	})
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, 404, StatusFromError(fiber.ErrNotFound))
	assert.Equal(t, 502, StatusFromError(apperrors.UpstreamFailure("u", apperrors.ReasonTransport)))
	assert.Equal(t, 500, StatusFromError(assert.AnError))
}

func TestRequestCarrier(t *testing.T) {
	app := fiber.New()

	var got string
	var keys []string
	app.Get("/", func(c *fiber.Ctx) error {
		carrier := newRequestCarrier(c)
		carrier.Set("tracestate", "vendor=1")
		got = carrier.Get("Tracestate")
		keys = carrier.Keys()
		return c.SendStatus(200)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Baggage", "user=alice")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "vendor=1", got)
	assert.Contains(t, keys, "Baggage")
	assert.Contains(t, keys, "Tracestate")
}

func TestTracingMiddleware_AttributesSurviveLaterRequests(t *testing.T) {
	tp, recorder := testutil.NewRecordingProvider()

	app := fiber.New()
	app.Use(RequestID())
	app.Use(NewTracingMiddleware(DefaultTracingConfig(tp)).Handler())
	app.Get("/:name", func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	requests := []struct {
		path      string
		userAgent string
		requestID string
	}{
		{path: "/aaaaaaaaaa", userAgent: "agent-one-AAAAAA", requestID: "rid-1111111111"},
		{path: "/bbbbbbbbbb", userAgent: "agent-two-BBBBBB", requestID: "rid-2222222222"},
	}
	for _, r := range requests {
		req := httptest.NewRequest("GET", r.path, nil)
		req.Header.Set("User-Agent", r.userAgent)
		req.Header.Set(HeaderRequestID, r.requestID)
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	spans := recorder.Ended()
	require.Len(t, spans, len(requests))
	for i, r := range requests {
		path, ok := testutil.Attribute(spans[i], "url.path")
		require.True(t, ok)
		assert.Equal(t, r.path, path.AsString())

		userAgent, ok := testutil.Attribute(spans[i], "user_agent.original")
		require.True(t, ok)
		assert.Equal(t, r.userAgent, userAgent.AsString())

		requestID, ok := testutil.Attribute(spans[i], "request.id")
		require.True(t, ok)
		assert.Equal(t, r.requestID, requestID.AsString())

		method, ok := testutil.Attribute(spans[i], "http.request.method")
		require.True(t, ok)
		assert.Equal(t, "GET", method.AsString())
	}
}
