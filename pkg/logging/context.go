package logging

import "context"

type ctxKey string

const loggerKey ctxKey = "dialog.logger"

// WithContext stores the logger in context.
func WithContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or fallback when none is set.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*Logger); ok && logger != nil {
			return logger
		}
	}
	if fallback == nil {
		return Default()
	}
	return fallback
}
