// Package logging configures structured logging and provides the request
// logger used by the router, including console style timers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Name is the instrumentation scope used for logs, traces and metrics.
const Name = "github.com/massimiliano76/lapi"

// New creates a slog.Logger writing to stdout as configured.
func New(cfg *Config) *slog.Logger {
	return slog.New(NewHandler(cfg, os.Stdout))
}

// NewHandler returns a text or JSON handler writing to w, or the
// OpenTelemetry bridge handler for the otel format, which ignores w. All
// formats drop records below the configured level.
func NewHandler(cfg *Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: cfg.Level.ToSlogLevel(),
	}

	switch cfg.Format {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatOTel:
		return &levelHandler{level: opts.Level, next: otelslog.NewHandler(Name)}
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// levelHandler enforces a minimum level on handlers without HandlerOptions.
type levelHandler struct {
	level slog.Leveler
	next  slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.next.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, next: h.next.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, next: h.next.WithGroup(name)}
}

// Level represents a logging severity level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func (l Level) Validate() error {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return nil
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l)
	}
}

// ToSlogLevel converts the Level to its slog.Level equivalent.
// Unknown levels default to slog.LevelInfo.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format represents the log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatOTel Format = "otel"
)

func (f Format) Validate() error {
	switch f {
	case FormatText, FormatJSON, FormatOTel:
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (must be text, json, or otel)", f)
	}
}
