// Package telemetry wires the OpenTelemetry SDK for the web service.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InstrumentationName identifies spans produced by this service's own code
const InstrumentationName = "github.com/agenttrace/webservice"

// Span exporters
const (
	ExporterOTLP = "otlp"
	ExporterNone = "none"
)

// Config holds tracer provider configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Exporter is ExporterOTLP or ExporterNone. The OTLP exporter reads its
	// endpoint and headers from the standard OTEL_EXPORTER_OTLP_* variables.
	Exporter string
}

// Provider owns the SDK tracer provider
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider builds a tracer provider for cfg. Extra options are appended
// after the configured exporter, which lets tests attach a span recorder.
func NewProvider(ctx context.Context, cfg Config, opts ...sdktrace.TracerProviderOption) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	providerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	switch cfg.Exporter {
	case ExporterOTLP:
		exporter, err := otlptracehttp.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	case ExporterNone, "":
	default:
		return nil, fmt.Errorf("unknown traces exporter %q", cfg.Exporter)
	}

	providerOpts = append(providerOpts, opts...)

	return &Provider{tp: sdktrace.NewTracerProvider(providerOpts...)}, nil
}

// Install registers the provider and propagator globally and routes SDK
// errors to log.
func (p *Provider) Install(log *zap.Logger) {
	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(Propagator())
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warn("opentelemetry error", zap.Error(err))
	}))
}

// Tracer returns the tracer used by handlers
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer(InstrumentationName)
}

// TracerProvider exposes the underlying provider for instrumentation libraries
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tp
}

// Shutdown flushes pending spans and stops the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}

// Propagator returns the W3C trace-context and baggage propagator
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}
