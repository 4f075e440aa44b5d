package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hook-specific helpers
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger on stdout with the specified level
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(level string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns a logger with default settings
func Default() *Logger {
	return New("info")
}

// WithTurn returns a child logger tagged with the dialog turn identifiers.
func (l *Logger) WithTurn(sessionID, intentName, invocationSource string) *Logger {
	if l == nil {
		l = Default()
	}
	return &Logger{Logger: l.With(
		"session_id", sessionID,
		"intent", intentName,
		"invocation_source", invocationSource,
	)}
}
