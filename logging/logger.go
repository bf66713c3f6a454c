package logging

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer        = otel.Tracer(Name)
	timerDuration = newTimerHistogram(otel.Meter(Name))
)

func newTimerHistogram(meter metric.Meter) metric.Float64Histogram {
	histogram, err := meter.Float64Histogram("lapi.timer.duration",
		metric.WithDescription("Duration between Time and TimeEnd calls by label"),
		metric.WithUnit("ms"))
	if err != nil {
		otel.Handle(err)
		return noop.Float64Histogram{}
	}

	return histogram
}

type mark struct {
	start time.Time
	span  trace.Span
}

// Logger is a slog.Logger with labelled timers. It belongs to a single
// request and is not safe for concurrent use.
type Logger struct {
	*slog.Logger

	ctx    context.Context
	timers map[string]mark
	now    func() time.Time
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{
		Logger: logger,
		ctx:    context.Background(),
		timers: make(map[string]mark),
		now:    time.Now,
	}
}

// With returns a Logger carrying the given attributes and no running timers.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		ctx:    l.ctx,
		timers: make(map[string]mark),
		now:    l.now,
	}
}

// WithContext returns a Logger whose records and timer spans use ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.Logger,
		ctx:    ctx,
		timers: make(map[string]mark),
		now:    l.now,
	}
}

func (l *Logger) Context() context.Context {
	return l.ctx
}

// Time starts a timer under label. Starting a label that is already running
// logs a warning and keeps the original start.
func (l *Logger) Time(label string) {
	if _, running := l.timers[label]; running {
		l.WarnContext(l.ctx, "timer already exists", "label", label)
		return
	}

	_, span := tracer.Start(l.ctx, label)
	l.timers[label] = mark{start: l.now(), span: span}
}

// TimeEnd stops the timer under label and logs the elapsed time.
func (l *Logger) TimeEnd(label string) {
	m, running := l.timers[label]
	if !running {
		l.WarnContext(l.ctx, "timer does not exist", "label", label)
		return
	}
	delete(l.timers, label)

	elapsed := l.now().Sub(m.start)
	m.span.End()

	timerDuration.Record(l.ctx, float64(elapsed)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("label", label)))

	l.InfoContext(l.ctx, label+": "+elapsed.String(), "label", label, "duration", elapsed)
}
