package opfsgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with opfsgo-specific context.
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

// WithBackend adds a backend field to the logger (e.g. "memory", "native").
func (l *Logger) WithBackend(backend string) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", backend),
	}
}

// WithName adds an entry name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// LogLookup logs a handle resolution (file or directory).
func (l *Logger) LogLookup(ctx context.Context, kind EntryKind, name string, created bool, err error) {
	if err != nil {
		l.DebugContext(ctx, "lookup failed",
			"kind", kind.String(),
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "lookup completed",
			"kind", kind.String(),
			"name", name,
			"created", created,
		)
	}
}

// LogRemove logs an entry removal.
func (l *Logger) LogRemove(ctx context.Context, name string, recursive bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed",
			"name", name,
			"recursive", recursive,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "remove completed",
			"name", name,
			"recursive", recursive,
		)
	}
}

// LogWrite logs a stream write.
func (l *Logger) LogWrite(ctx context.Context, n int, cursor int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"bytes", n,
			"cursor", cursor,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "write completed",
			"bytes", n,
			"cursor", cursor,
		)
	}
}

// LogSnapshot logs a snapshot or restore operation.
func (l *Logger) LogSnapshot(ctx context.Context, op string, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"entries", entries,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"op", op,
			"entries", entries,
		)
	}
}
