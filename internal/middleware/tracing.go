package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agenttrace/webservice/internal/pkg/errors"
	"github.com/agenttrace/webservice/internal/pkg/telemetry"
)

// HeaderTraceID echoes the trace ID of the server span to the caller
const HeaderTraceID = "X-Trace-ID"

// TracingConfig configures the tracing middleware
type TracingConfig struct {
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
	// Skip function
	Skip func(*fiber.Ctx) bool
}

// DefaultTracingConfig returns the tracing config for a provider
func DefaultTracingConfig(tp trace.TracerProvider) TracingConfig {
	return TracingConfig{
		TracerProvider: tp,
		Propagator:     telemetry.Propagator(),
		Skip:           HealthSkipper,
	}
}

// TracingMiddleware opens a server span per request
type TracingMiddleware struct {
	config TracingConfig
	tracer trace.Tracer
}

// NewTracingMiddleware creates a new tracing middleware
func NewTracingMiddleware(config TracingConfig) *TracingMiddleware {
	return &TracingMiddleware{
		config: config,
		tracer: config.TracerProvider.Tracer(telemetry.InstrumentationName),
	}
}

// Handler returns the tracing handler. The span context is stored as the
// fiber user context so handlers start their spans as children of it.
func (m *TracingMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.config.Skip != nil && m.config.Skip(c) {
			return c.Next()
		}

		// Fiber strings alias fasthttp buffers that are reused by the next
		// request, while spans are exported after this one has finished.
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Path())

		ctx := m.config.Propagator.Extract(c.UserContext(), newRequestCarrier(c))
		ctx, span := m.tracer.Start(ctx, method+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.path", path),
				attribute.String("url.scheme", c.Protocol()),
				attribute.String("client.address", c.IP()),
				attribute.String("user_agent.original", utils.CopyString(c.Get(fiber.HeaderUserAgent))),
			),
		)
		defer span.End()

		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request.id", requestID))
		}
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(HeaderTraceID, sc.TraceID().String())
		}

		c.SetUserContext(ctx)
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFromError(err)
			span.RecordError(err)
		}

		// The matched route is only known once routing has run. Unmatched
		// requests keep the raw path.
		if route := c.Route(); status != fiber.StatusNotFound && route != nil && route.Path != "" {
			span.SetName(method + " " + route.Path)
			span.SetAttributes(attribute.String("http.route", route.Path))
		}
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		return err
	}
}

// StatusFromError returns the status the app error handler will respond with
func StatusFromError(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperrors.GetStatusCode(err)
}

// requestCarrier adapts the fasthttp request headers to a TextMapCarrier
type requestCarrier struct {
	header *fasthttp.RequestHeader
}

func newRequestCarrier(c *fiber.Ctx) requestCarrier {
	return requestCarrier{header: &c.Request().Header}
}

func (rc requestCarrier) Get(key string) string {
	return string(rc.header.Peek(key))
}

func (rc requestCarrier) Set(key, value string) {
	rc.header.Set(key, value)
}

func (rc requestCarrier) Keys() []string {
	keys := make([]string, 0, rc.header.Len())
	rc.header.VisitAll(func(key, _ []byte) {
		keys = append(keys, string(key))
	})
	return keys
}
