// Package logger provides a context-aware structured logger built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Level controls the minimum severity that gets emitted.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// LoggerInterface is the logging contract consumed by services and adapters.
// All methods take a context so trace IDs can be attached to log records.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// EventFunc is invoked for every record at Warn or above, letting callers
// hook alert sinks without coupling the logger to them. May be nil.
type EventFunc func(ctx context.Context, level Level, msg string)

// Logger implements LoggerInterface over slog with JSON output.
type Logger struct {
	sl     *slog.Logger
	events EventFunc
}

// New creates a Logger writing JSON records to w. The service name is
// attached to every record.
func New(w io.Writer, minLevel Level, service string, events EventFunc) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(minLevel),
	})

	return &Logger{
		sl:     slog.New(h).With("service", service),
		events: events,
	}
}

// NewNop creates a logger that discards everything. Intended for tests.
func NewNop() *Logger {
	return New(io.Discard, LevelError, "test", nil)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		args = append(args, "trace_id", spanCtx.TraceID().String())
	}
	l.sl.Log(ctx, level, msg, args...)

	if l.events != nil && level >= slog.LevelWarn {
		l.events(ctx, Level(level), msg)
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

// With returns a logger carrying additional key/value attributes.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{sl: l.sl.With(args...), events: l.events}
}
