package vfs

import (
	"io"
	"log/slog"
	"os"
)

// NewTextLogger creates a logger that writes human-readable text to stderr.
// level sets the minimum log level.
func NewTextLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a logger that writes JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// noopLogger discards all log output. It is the facade default so library
// consumers opt in to logging explicitly.
func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
