package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

type recordingExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, record := range records {
		e.bodies = append(e.bodies, record.Body().AsString())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func TestLevelValidate(t *testing.T) {
	for _, level := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		assert.NoError(t, level.Validate())
	}
	assert.Error(t, Level("verbose").Validate())
}

func TestLevelToSlogLevel(t *testing.T) {
	cases := map[Level]slog.Level{
		LevelDebug: slog.LevelDebug,
		LevelInfo:  slog.LevelInfo,
		LevelWarn:  slog.LevelWarn,
		LevelError: slog.LevelError,
		"unknown":  slog.LevelInfo,
	}

	for level, expected := range cases {
		assert.Equal(t, expected, level.ToSlogLevel(), string(level))
	}
}

func TestFormatValidate(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON, FormatOTel} {
		assert.NoError(t, format.Validate())
	}
	assert.Error(t, Format("xml").Validate())
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&Config{Level: LevelWarn, Format: FormatJSON}, &buf))

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "value", record["key"])
}

func TestNewHandlerText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&Config{Level: LevelInfo, Format: FormatText}, &buf))

	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewHandlerOTelHonoursLevel(t *testing.T) {
	previous := global.GetLoggerProvider()
	t.Cleanup(func() { global.SetLoggerProvider(previous) })

	exporter := &recordingExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	global.SetLoggerProvider(provider)

	handler := NewHandler(&Config{Level: LevelError, Format: FormatOTel}, nil)
	ctx := context.Background()
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug))
	assert.False(t, handler.Enabled(ctx, slog.LevelInfo))
	assert.True(t, handler.Enabled(ctx, slog.LevelError))

	logger := slog.New(handler).With("component", "test")
	logger.Info("dropped")
	logger.Error("kept")

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	assert.Equal(t, []string{"kept"}, exporter.bodies)
}

func TestConfigFinalize(t *testing.T) {
	env := &Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"}

	t.Run("defaults", func(t *testing.T) {
		var cfg Config
		require.NoError(t, cfg.Finalize(env))
		assert.Equal(t, LevelInfo, cfg.Level)
		assert.Equal(t, FormatText, cfg.Format)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_LOG_LEVEL", "debug")
		t.Setenv("TEST_LOG_FORMAT", "json")

		cfg := Config{Level: LevelError}
		require.NoError(t, cfg.Finalize(env))
		assert.Equal(t, LevelDebug, cfg.Level)
		assert.Equal(t, FormatJSON, cfg.Format)
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := Config{Level: "loud"}
		assert.Error(t, cfg.Finalize(nil))
	})
}

func TestConfigMerge(t *testing.T) {
	cfg := Config{Level: LevelInfo, Format: FormatText}
	cfg.Merge(&Config{Format: FormatJSON})

	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
}
