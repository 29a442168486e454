package totalspin

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with estimator-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithModel adds a model field to the logger.
func (l *Logger) WithModel(m Model) *Logger {
	return &Logger{
		Logger: l.Logger.With("model", m.String()),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogEstimate logs a finished estimate.
func (l *Logger) LogEstimate(ctx context.Context, pairs int, res Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "total spin estimate failed",
			"site_pairs", pairs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "total spin estimate completed",
			"site_pairs", pairs,
			"s2", res.S2,
			"sz", res.Sz,
			"sz_reduced", res.SzReduced,
		)
	}
}

// LogUnknownModel logs the zero result returned for an unrecognized model.
func (l *Logger) LogUnknownModel(ctx context.Context, m Model) {
	l.WarnContext(ctx, "unrecognized model, reporting zero total spin",
		"model", int(m),
	)
}
