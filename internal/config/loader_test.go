package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Empty(t, cfg.Upstream.URL)
	assert.False(t, cfg.Upstream.Configured())
	assert.Equal(t, 0.02, cfg.Upstream.FaultRate)

	assert.Equal(t, 100*time.Millisecond, cfg.Delay.MinDuration())
	assert.Equal(t, 2*time.Second, cfg.Delay.MaxDuration())

	assert.Equal(t, "unknown_service", cfg.OTel.ServiceName)
	assert.Equal(t, "otlp", cfg.OTel.TracesExporter)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Sentry.Enabled)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("UPSTREAM", " http://backend:8000/process ")
	t.Setenv("OTEL_SERVICE_NAME", "frontend")
	t.Setenv("FAULT_RATE", "0.5")
	t.Setenv("DELAY_MIN", "0.01")
	t.Setenv("DELAY_MAX", "0.02")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8000/process", cfg.Upstream.URL)
	assert.True(t, cfg.Upstream.Configured())
	assert.Equal(t, "frontend", cfg.OTel.ServiceName)
	assert.Equal(t, 0.5, cfg.Upstream.FaultRate)
	assert.Equal(t, 10*time.Millisecond, cfg.Delay.MinDuration())
	assert.Equal(t, 20*time.Millisecond, cfg.Delay.MaxDuration())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "none", cfg.OTel.TracesExporter)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{
			name:  "fault rate above one",
			env:   map[string]string{"FAULT_RATE": "1.5"},
			field: "upstream.fault_rate",
		},
		{
			name:  "inverted delay range",
			env:   map[string]string{"DELAY_MIN": "2", "DELAY_MAX": "1"},
			field: "delay.max",
		},
		{
			name:  "upstream is not a url",
			env:   map[string]string{"UPSTREAM": "not a url"},
			field: "upstream.url",
		},
		{
			name:  "unknown exporter",
			env:   map[string]string{"OTEL_TRACES_EXPORTER": "zipkin"},
			field: "otel.traces_exporter",
		},
		{
			name:  "sentry enabled without dsn",
			env:   map[string]string{"SENTRY_ENABLED": "true"},
			field: "sentry.dsn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Run("present file is applied", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_port: 9191\nfault_rate: 0.1\n"), 0o600))
		t.Chdir(dir)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9191, cfg.Server.Port)
		assert.Equal(t, 0.1, cfg.Upstream.FaultRate)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_port: [9191\n"), 0o600))
		t.Chdir(dir)

		cfg, err := Load()
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}
