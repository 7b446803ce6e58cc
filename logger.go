package bytevec

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bytevec-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

var noopLogger = NoopLogger()

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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithName adds a name field, useful to tell vectors apart in shared logs.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("vector", name),
	}
}

// WithRecordSize adds a record_size field to the logger.
func (l *Logger) WithRecordSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("record_size", size),
	}
}

// LogGrow logs a capacity change.
func (l *Logger) LogGrow(from, to, recordSize int, err error) {
	if err != nil {
		l.Warn("grow failed",
			"from", from,
			"to", to,
			"record_size", recordSize,
			"error", err,
		)
	} else {
		l.Debug("grow completed",
			"from", from,
			"to", to,
			"record_size", recordSize,
		)
	}
}

// LogCopy logs a deep copy.
func (l *Logger) LogCopy(records, recordSize int, err error) {
	if err != nil {
		l.Warn("copy failed",
			"records", records,
			"record_size", recordSize,
			"error", err,
		)
	} else {
		l.Debug("copy completed",
			"records", records,
			"record_size", recordSize,
		)
	}
}

// LogRelease logs storage being returned to the allocator.
func (l *Logger) LogRelease(capacity, recordSize int) {
	l.Debug("storage released",
		"capacity", capacity,
		"record_size", recordSize,
	)
}
