package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), &Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestConfigFinalize(t *testing.T) {
	env := &Env{
		Enabled:        "TEST_TELEMETRY_ENABLED",
		ServiceName:    "TEST_TELEMETRY_SERVICE_NAME",
		Endpoint:       "TEST_TELEMETRY_ENDPOINT",
		Insecure:       "TEST_TELEMETRY_INSECURE",
		ExportInterval: "TEST_TELEMETRY_EXPORT_INTERVAL",
	}

	t.Run("defaults", func(t *testing.T) {
		var cfg Config
		require.NoError(t, cfg.Finalize(env))
		assert.False(t, cfg.Enabled)
		assert.Equal(t, "lapi", cfg.ServiceName)
		assert.Equal(t, "localhost:4317", cfg.Endpoint)
		assert.Equal(t, time.Minute, cfg.ExportIntervalDuration())
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_TELEMETRY_ENABLED", "true")
		t.Setenv("TEST_TELEMETRY_SERVICE_NAME", "edge")
		t.Setenv("TEST_TELEMETRY_ENDPOINT", "collector:4317")
		t.Setenv("TEST_TELEMETRY_INSECURE", "1")
		t.Setenv("TEST_TELEMETRY_EXPORT_INTERVAL", "5s")

		var cfg Config
		require.NoError(t, cfg.Finalize(env))
		assert.True(t, cfg.Enabled)
		assert.True(t, cfg.Insecure)
		assert.Equal(t, "edge", cfg.ServiceName)
		assert.Equal(t, "collector:4317", cfg.Endpoint)
		assert.Equal(t, 5*time.Second, cfg.ExportIntervalDuration())
	})

	t.Run("invalid bool", func(t *testing.T) {
		t.Setenv("TEST_TELEMETRY_ENABLED", "sometimes")

		var cfg Config
		assert.Error(t, cfg.Finalize(env))
	})

	t.Run("invalid interval", func(t *testing.T) {
		cfg := Config{ExportInterval: "-1s"}
		assert.Error(t, cfg.Finalize(nil))
	})
}

func TestConfigMerge(t *testing.T) {
	cfg := Config{ServiceName: "lapi", Endpoint: "localhost:4317"}
	cfg.Merge(&Config{Enabled: true, Endpoint: "collector:4317"})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "lapi", cfg.ServiceName)
	assert.Equal(t, "collector:4317", cfg.Endpoint)
}
