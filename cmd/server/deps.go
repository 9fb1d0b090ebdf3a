package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenttrace/webservice/internal/config"
	"github.com/agenttrace/webservice/internal/handler"
	"github.com/agenttrace/webservice/internal/pkg/telemetry"
	"github.com/agenttrace/webservice/internal/service"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Telemetry *telemetry.Provider

	// Services
	ProcessService *service.ProcessService

	// Handlers
	RequestHandler *handler.RequestHandler
	HealthHandler  *handler.HealthHandler
}

// initDependencies builds the tracer provider, services and handlers
func initDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.OTel.ServiceVersion,
		Exporter:       cfg.OTel.TracesExporter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	tp.Install(logger)

	// A nil interface, not a nil *UpstreamClient, selects delay mode.
	var upstream service.Upstream
	if cfg.Upstream.Configured() {
		upstream = service.NewUpstreamClient(cfg.Upstream.URL, tp.TracerProvider())
	}

	processService := service.NewProcessService(service.ProcessConfig{
		FaultRate: cfg.Upstream.FaultRate,
		DelayMin:  cfg.Delay.MinDuration(),
		DelayMax:  cfg.Delay.MaxDuration(),
	}, upstream, logger)

	logger.Info("processing mode selected",
		zap.Bool("upstream", processService.UpstreamConfigured()),
		zap.String("upstream_url", cfg.Upstream.URL),
		zap.Float64("fault_rate", cfg.Upstream.FaultRate),
		zap.Duration("delay_min", cfg.Delay.MinDuration()),
		zap.Duration("delay_max", cfg.Delay.MaxDuration()),
	)

	return &Dependencies{
		Config:         cfg,
		Logger:         logger,
		Telemetry:      tp,
		ProcessService: processService,
		RequestHandler: handler.NewRequestHandler(tp.Tracer(), cfg.OTel.ServiceName, processService, logger),
		HealthHandler:  handler.NewHealthHandler(cfg.OTel.ServiceVersion, processService.UpstreamConfigured()),
	}, nil
}

// Close flushes buffered spans
func (d *Dependencies) Close(ctx context.Context) {
	if err := d.Telemetry.Shutdown(ctx); err != nil {
		d.Logger.Error("failed to shut down tracer provider", zap.Error(err))
	}
}
