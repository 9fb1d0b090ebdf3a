package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/agenttrace/webservice/internal/dto"
	apperrors "github.com/agenttrace/webservice/internal/pkg/errors"
)

// localsSentryHub is the fiber locals key holding the per-request hub
const localsSentryHub = "sentry_hub"

// SentryConfig holds Sentry-specific configuration
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	Debug       bool
	SampleRate  float64
}

// InitSentry initializes the Sentry SDK. An empty DSN leaves it disabled.
func InitSentry(config SentryConfig) error {
	if config.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		Environment:      config.Environment,
		Release:          config.Release,
		Debug:            config.Debug,
		SampleRate:       config.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// FlushSentry flushes any buffered events to Sentry
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}

// RecoverWithSentry creates a recovery middleware that reports to Sentry.
// A recovered panic is recorded on the active span and answered with the
// internal error envelope.
func RecoverWithSentry(logger *zap.Logger, sentryEnabled bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		var hub *sentry.Hub
		if sentryEnabled {
			hub = sentry.CurrentHub().Clone()
			setSentryRequestContext(hub, c)
			hub.Scope().SetTag("request_id", GetRequestID(c))
		}

		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()

			var panicErr error
			switch v := r.(type) {
			case error:
				panicErr = v
			default:
				panicErr = fmt.Errorf("%v", v)
			}

			span := trace.SpanFromContext(c.UserContext())
			span.RecordError(panicErr, trace.WithStackTrace(true))
			span.SetStatus(codes.Error, "panic recovered")

			logger.Error("panic recovered",
				zap.Error(panicErr),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
				zap.String("stack", string(stack)),
				zap.String("request_id", GetRequestID(c)),
			)

			if hub != nil {
				hub.Scope().SetExtra("stack_trace", string(stack))
				hub.Scope().SetLevel(sentry.LevelFatal)
				if eventID := hub.RecoverWithContext(c.Context(), r); eventID != nil {
					logger.Info("panic reported to Sentry",
						zap.String("event_id", string(*eventID)),
					)
				}
				hub.Flush(2 * time.Second)
			}

			err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: dto.ErrorBody{
					Code:    apperrors.CodeInternal,
					Message: "An unexpected error occurred",
					Details: map[string]string{"request_id": GetRequestID(c)},
				},
			})
		}()

		return c.Next()
	}
}

// SentryMiddleware attaches a per-request Sentry hub for CaptureError
func SentryMiddleware(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Next()
		}

		hub := sentry.CurrentHub().Clone()
		setSentryRequestContext(hub, c)
		hub.Scope().SetTag("request_id", GetRequestID(c))
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.IsValid() {
			hub.Scope().SetTag("trace_id", sc.TraceID().String())
		}

		c.Locals(localsSentryHub, hub)

		return c.Next()
	}
}

// CaptureError reports an error to Sentry from a Fiber context
func CaptureError(c *fiber.Ctx, err error) {
	hub, ok := c.Locals(localsSentryHub).(*sentry.Hub)
	if !ok || hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetExtra("path", utils.CopyString(c.Path()))
		scope.SetExtra("method", utils.CopyString(c.Method()))
		scope.SetTag("request_id", GetRequestID(c))
		if appErr := apperrors.GetAppError(err); appErr != nil {
			scope.SetTag("error_code", appErr.Code)
			for k, v := range appErr.Details {
				scope.SetExtra(k, v)
			}
		}
		hub.CaptureException(err)
	})
}

func setSentryRequestContext(hub *sentry.Hub, c *fiber.Ctx) {
	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		k := string(key)
		if !isSensitiveHeader(k) {
			headers[k] = string(value)
		}
	})

	hub.Scope().SetContext("Request", map[string]interface{}{
		"url":          utils.CopyString(c.OriginalURL()),
		"method":       utils.CopyString(c.Method()),
		"headers":      headers,
		"query_string": string(c.Request().URI().QueryString()),
		"remote_addr":  c.IP(),
	})
}
