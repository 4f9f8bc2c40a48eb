package featgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with featgo-specific helpers.
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

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogBuild logs the outcome of a Build call.
func (l *Logger) LogBuild(rows, dim int, normalized bool, err error) {
	if err != nil {
		l.Error("build failed",
			"error", err,
		)
	} else {
		l.Debug("build completed",
			"rows", rows,
			"dimension", dim,
			"normalized", normalized,
		)
	}
}

// LogBatchFeature logs a batch lookup.
func (l *Logger) LogBatchFeature(batchSize int, err error) {
	if err != nil {
		l.Error("batch feature lookup failed",
			"batch_size", batchSize,
			"error", err,
		)
	} else {
		l.Debug("batch feature lookup completed",
			"batch_size", batchSize,
		)
	}
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(op, name string, err error) {
	if err != nil {
		l.Error("snapshot failed",
			"op", op,
			"name", name,
			"error", err,
		)
	} else {
		l.Info("snapshot completed",
			"op", op,
			"name", name,
		)
	}
}
