package featgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with featgo-specific context.
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

// WithTransformer adds a transformer name field to the logger.
func (l *Logger) WithTransformer(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("transformer", name),
	}
}

// WithVariable adds a variable name field to the logger.
func (l *Logger) WithVariable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("variable", name),
	}
}

// WithRows adds a row count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// LogFit logs a fit operation.
func (l *Logger) LogFit(ctx context.Context, transformer string, variables, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"transformer", transformer,
			"variables", variables,
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "fit completed",
			"transformer", transformer,
			"variables", variables,
			"rows", rows,
		)
	}
}

// LogTransform logs a transform operation.
func (l *Logger) LogTransform(ctx context.Context, transformer string, rows, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "transform failed",
			"transformer", transformer,
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "transform completed",
			"transformer", transformer,
			"rows", rows,
			"columns", columns,
		)
	}
}

// LogSnapshot logs a snapshot save or load operation.
func (l *Logger) LogSnapshot(ctx context.Context, key string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"key", key,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"key", key,
		)
	}
}
