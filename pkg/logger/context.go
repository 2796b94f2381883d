package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// With derives a request-scoped logger carrying the given fields and
// stores it back into the context. The request ID middleware uses this
// so every log line in a request shares its trace ID.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, loggerKey, l)
}

// From returns the logger stored in context, falling back to the
// process-wide logger when none was attached.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	if l := LoggerWrapper(); l != nil {
		return l
	}
	return slog.Default()
}
