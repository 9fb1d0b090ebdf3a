package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Delay    DelayConfig    `mapstructure:"delay"`
	Log      LogConfig      `mapstructure:"log"`
	OTel     OTelConfig     `mapstructure:"otel"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Env  string `mapstructure:"env" validate:"oneof=development test staging production"`
}

// UpstreamConfig holds the optional upstream dependency of the processing route
type UpstreamConfig struct {
	// URL is the upstream target. Empty switches /process to delay mode.
	URL string `mapstructure:"url" validate:"omitempty,url"`
	// FaultRate is the probability of failing an upstream call before it is made
	FaultRate float64 `mapstructure:"fault_rate" validate:"gte=0,lte=1"`
}

// Configured reports whether an upstream target is set
func (c UpstreamConfig) Configured() bool {
	return c.URL != ""
}

// DelayConfig holds the simulated processing delay range, in seconds
type DelayConfig struct {
	Min float64 `mapstructure:"min" validate:"gt=0"`
	Max float64 `mapstructure:"max" validate:"gtefield=Min"`
}

// MinDuration returns the lower bound as a duration
func (c DelayConfig) MinDuration() time.Duration {
	return secondsToDuration(c.Min)
}

// MaxDuration returns the upper bound as a duration
func (c DelayConfig) MaxDuration() time.Duration {
	return secondsToDuration(c.Max)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	// ServiceName is embedded in span names and the trace resource
	ServiceName    string `mapstructure:"service_name" validate:"required"`
	ServiceVersion string `mapstructure:"service_version"`
	// TracesExporter selects the span exporter: "otlp" or "none"
	TracesExporter string `mapstructure:"traces_exporter" validate:"oneof=otlp none"`
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}

// SentryConfig holds Sentry error reporting configuration
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	Release     string  `mapstructure:"release"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// IsDevelopment returns true if running in development mode
func (c Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
