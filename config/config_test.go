package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/massimiliano76/lapi/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), BaseConfigFile))
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeoutDuration())
	assert.Equal(t, 1024*1024, cfg.Server.MaxHeaderBytes())
	assert.False(t, cfg.Router.Timer)
	assert.Equal(t, logging.LevelInfo, cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), BaseConfigFile, `
shutdown_timeout = "10s"

[server]
addr = "127.0.0.1:9000"
max_header_size = "64KiB"

[router]
timer = true

[logging]
level = "debug"
format = "json"

[telemetry]
enabled = true
service_name = "edge"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 64*1024, cfg.Server.MaxHeaderBytes())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeoutDuration())
	assert.True(t, cfg.Router.Timer)
	assert.Equal(t, logging.LevelDebug, cfg.Logging.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "edge", cfg.Telemetry.ServiceName)
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, BaseConfigFile, `
[server]
addr = ":8080"

[logging]
level = "info"
`)
	writeFile(t, dir, "config.production.toml", `
[server]
addr = ":80"

[router]
timer = true
`)
	t.Setenv(EnvServiceEnv, "production")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":80", cfg.Server.Addr)
	assert.Equal(t, logging.LevelInfo, cfg.Logging.Level)
	assert.True(t, cfg.Router.Timer)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), BaseConfigFile, `[server`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv(EnvShutdownTimeout, "5s")
	t.Setenv("LAPI_SERVER_ADDR", ":9090")
	t.Setenv("LAPI_ROUTER_TIMER", "true")
	t.Setenv("LAPI_LOG_FORMAT", "otel")
	t.Setenv("LAPI_TELEMETRY_ENDPOINT", "collector:4317")

	cfg := &Config{}
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Router.Timer)
	assert.Equal(t, logging.FormatOTel, cfg.Logging.Format)
	assert.Equal(t, "collector:4317", cfg.Telemetry.Endpoint)
}

func TestFinalizeValidation(t *testing.T) {
	cases := map[string]*Config{
		"shutdown timeout":  {ShutdownTimeout: "soon"},
		"read timeout":      {Server: ServerConfig{ReadTimeout: "x"}},
		"max header size":   {Server: ServerConfig{MaxHeaderSize: "lots"}},
		"http3 without tls": {Server: ServerConfig{HTTP3: HTTP3Config{Enabled: true}}},
		"log level":         {Logging: logging.Config{Level: "loud"}},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Finalize())
		})
	}
}

func TestFinalizeInvalidRouterEnv(t *testing.T) {
	t.Setenv("LAPI_ROUTER_TIMER", "maybe")

	cfg := &Config{}
	assert.Error(t, cfg.Finalize())
}
