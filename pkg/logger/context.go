package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const loggerKey ctxKey = iota

// AttrsFromCtx returns trace_id/span_id when ctx carries a valid span.
func AttrsFromCtx(ctx context.Context) []slog.Attr {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}

	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}

// WithContext кладёт *slog.Logger в контекст.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext извлекает логгер из контекста (или глобальный) и добавляет trace-атрибуты.
func FromContext(ctx context.Context) *slog.Logger {
	l := L()
	if v, ok := ctx.Value(loggerKey).(*slog.Logger); ok && v != nil {
		l = v
	}
	attrs := AttrsFromCtx(ctx)
	if len(attrs) == 0 {
		return l
	}
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	return l.With(args...)
}
