package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/agenttrace/webservice/internal/validator"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Optionally read from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/webservice")

	// The config file is optional, but a present one must parse
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config

	// Server
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.Env = v.GetString("server_env")

	// Upstream
	cfg.Upstream.URL = strings.TrimSpace(v.GetString("upstream"))
	cfg.Upstream.FaultRate = v.GetFloat64("fault_rate")

	// Simulated delay
	cfg.Delay.Min = v.GetFloat64("delay_min")
	cfg.Delay.Max = v.GetFloat64("delay_max")

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	// OpenTelemetry
	cfg.OTel.ServiceName = v.GetString("otel_service_name")
	cfg.OTel.ServiceVersion = v.GetString("service_version")
	cfg.OTel.TracesExporter = v.GetString("otel_traces_exporter")

	// Metrics
	cfg.Metrics.Enabled = v.GetBool("metrics_enabled")
	cfg.Metrics.Path = v.GetString("metrics_path")

	// Sentry
	cfg.Sentry.Enabled = v.GetBool("sentry_enabled")
	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.Environment = v.GetString("sentry_environment")
	cfg.Sentry.Release = v.GetString("sentry_release")
	cfg.Sentry.SampleRate = v.GetFloat64("sentry_sample_rate")

	// Validate required fields
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8000)
	v.SetDefault("server_env", "development")

	// Upstream defaults
	v.SetDefault("upstream", "")
	v.SetDefault("fault_rate", 0.02)

	// Delay defaults
	v.SetDefault("delay_min", 0.1)
	v.SetDefault("delay_max", 2.0)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// OpenTelemetry defaults
	v.SetDefault("otel_service_name", "unknown_service")
	v.SetDefault("service_version", "0.1.0")
	v.SetDefault("otel_traces_exporter", "otlp")

	// Metrics defaults
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_path", "/metrics")

	// Sentry defaults
	v.SetDefault("sentry_enabled", false)
	v.SetDefault("sentry_sample_rate", 1.0)
}

func validate(cfg *Config) error {
	if err := validator.Validate(cfg); err != nil {
		if validator.IsValidationError(err) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return fmt.Errorf("failed to validate configuration: %w", err)
	}
	return nil
}
