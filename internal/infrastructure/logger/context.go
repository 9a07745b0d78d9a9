package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	invocationIDKey
)

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID tags ctx and l with the HTTP request id.
func WithRequestID(ctx context.Context, l *zap.Logger, id string) (context.Context, *zap.Logger) {
	return scoped(ctx, l, requestIDKey, "request_id", id)
}

// WithInvocationID tags ctx and l with the id of one tax calculation.
func WithInvocationID(ctx context.Context, l *zap.Logger, id string) (context.Context, *zap.Logger) {
	return scoped(ctx, l, invocationIDKey, "invocation_id", id)
}

func scoped(ctx context.Context, l *zap.Logger, key ctxKey, field, id string) (context.Context, *zap.Logger) {
	l = l.With(zap.String(field, id))
	ctx = context.WithValue(ctx, key, id)
	return WithContext(ctx, l), l
}

// GetRequestID returns the request id in ctx, if any.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetInvocationID returns the invocation id in ctx, if any.
func GetInvocationID(ctx context.Context) string {
	id, _ := ctx.Value(invocationIDKey).(string)
	return id
}

// L returns the logger stored in ctx with trace_id and span_id of the
// active span attached.
//
//	logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	return Traced(ctx, FromContext(ctx))
}

// Traced attaches trace_id and span_id of the span in ctx to l.
func Traced(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	)
}
