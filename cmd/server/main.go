package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/agenttrace/webservice/internal/config"
	"github.com/agenttrace/webservice/internal/handler"
	"github.com/agenttrace/webservice/internal/middleware"
	"github.com/agenttrace/webservice/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	sentryEnabled := cfg.Sentry.Enabled && cfg.Sentry.DSN != ""
	if sentryEnabled {
		sentryConfig := middleware.SentryConfig{
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     cfg.Sentry.Release,
			Debug:       cfg.IsDevelopment(),
			SampleRate:  cfg.Sentry.SampleRate,
		}
		if sentryConfig.Release == "" {
			sentryConfig.Release = cfg.OTel.ServiceName + "@" + cfg.OTel.ServiceVersion
		}
		if sentryConfig.Environment == "" {
			sentryConfig.Environment = cfg.Server.Env
		}

		if err := middleware.InitSentry(sentryConfig); err != nil {
			log.Error("failed to initialize Sentry", zap.Error(err))
			sentryEnabled = false
		} else {
			log.Info("Sentry initialized",
				zap.String("environment", sentryConfig.Environment),
				zap.String("release", sentryConfig.Release),
			)
			defer middleware.FlushSentry(5 * time.Second)
		}
	}

	deps, err := initDependencies(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("failed to initialize dependencies", zap.Error(err))
	}

	app := newApp(deps, sentryEnabled)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Info("starting server",
			zap.String("addr", addr),
			zap.String("service", cfg.OTel.ServiceName),
		)
		if err := app.Listen(addr); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	deps.HealthHandler.SetShuttingDown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	deps.Close(ctx)

	log.Info("server stopped")
}

// newApp builds the Fiber app with the middleware chain and routes.
// Recovery sits inside tracing so a panic still ends the server span as an error.
func newApp(deps *Dependencies, sentryEnabled bool) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:               cfg.OTel.ServiceName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          handler.ErrorHandler(deps.Logger, sentryEnabled),
	})

	skip := middleware.CombinedSkipper(middleware.HealthSkipper, middleware.PathSkipper(cfg.Metrics.Path))

	app.Use(middleware.RequestID())

	loggerConfig := middleware.DefaultLoggerConfig(deps.Logger)
	loggerConfig.Skip = skip
	app.Use(middleware.NewLoggerMiddleware(loggerConfig).Handler())

	if cfg.Metrics.Enabled {
		metricsConfig := middleware.DefaultMetricsConfig()
		metricsConfig.Skip = skip
		app.Use(middleware.NewMetricsMiddleware(metricsConfig).Handler())
	}

	tracingConfig := middleware.DefaultTracingConfig(deps.Telemetry.TracerProvider())
	tracingConfig.Skip = skip
	app.Use(middleware.NewTracingMiddleware(tracingConfig).Handler())

	app.Use(middleware.RecoverWithSentry(deps.Logger, sentryEnabled))
	if sentryEnabled {
		app.Use(middleware.SentryMiddleware(true))
	}

	app.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig()).Handler())

	registerRoutes(app, deps)

	return app
}
