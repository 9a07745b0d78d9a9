package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of business spans.
const TracerName = "github.com/taxbridge/backend"

// Span attribute keys
const (
	KeyOrderID       = attribute.Key("tax.order_id")
	KeyInvocationID  = attribute.Key("tax.invocation_id")
	KeyCurrency      = attribute.Key("tax.currency_code")
	KeyLineAmount    = attribute.Key("tax.line_amount")
	KeyTaxAmount     = attribute.Key("tax.amount")
	KeyPostalCode    = attribute.Key("tax.postal_code")
	KeyState         = attribute.Key("tax.calculation_state")
	KeyProvider      = attribute.Key("tax.provider")
	KeyProviderError = attribute.Key("tax.provider_error_kind")
)

// StartSpan starts an internal span on the global tracer provider.
// The caller must end the returned span.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, name, trace.SpanKindInternal, attrs)
}

// StartClientSpan starts a span for an outbound call to a remote service.
func StartClientSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, name, trace.SpanKindClient, attrs)
}

func start(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(kind),
		trace.WithAttributes(attrs...),
	)
}

// Fail records err on span, marks it failed and adds attrs.
func Fail(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if span == nil || err == nil {
		return
	}
	span.SetAttributes(attrs...)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Succeed marks span successful and adds attrs.
func Succeed(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}
