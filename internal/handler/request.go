package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/agenttrace/webservice/internal/dto"
	"github.com/agenttrace/webservice/internal/middleware"
	"github.com/agenttrace/webservice/internal/pkg/logger"
	"github.com/agenttrace/webservice/internal/service"
)

// Span name prefixes; the service name is appended.
const (
	SpanGreeting   = "root-request-"
	SpanProcessing = "custom-processing-"
)

// Processor runs the processing route's work
type Processor interface {
	Process(ctx context.Context) (*service.ProcessResult, error)
}

// RequestHandler serves the greeting and processing routes
type RequestHandler struct {
	tracer      trace.Tracer
	serviceName string
	processor   Processor
	logger      *zap.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(
	tracer trace.Tracer,
	serviceName string,
	processor Processor,
	logger *zap.Logger,
) *RequestHandler {
	return &RequestHandler{
		tracer:      tracer,
		serviceName: serviceName,
		processor:   processor,
		logger:      logger,
	}
}

// Greeting handles GET /
func (h *RequestHandler) Greeting(c *fiber.Ctx) error {
	_, span := h.tracer.Start(c.UserContext(), SpanGreeting+h.serviceName)
	defer span.End()

	return c.JSON(dto.Greeting())
}

// Process handles GET /process
func (h *RequestHandler) Process(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), SpanProcessing+h.serviceName)
	defer span.End()

	result, err := h.processor.Process(ctx)
	if err != nil {
		return err
	}

	if result.Passthrough() {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(result.Body)
	}

	logger.WithRequestID(h.logger, middleware.GetRequestID(c)).Debug("processing simulated",
		zap.Duration("delay", result.Delay),
	)
	return c.JSON(dto.Processed(result.Delay))
}

// RegisterRoutes registers the greeting and processing routes
func (h *RequestHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Greeting)
	app.Get("/process", h.Process)
}
