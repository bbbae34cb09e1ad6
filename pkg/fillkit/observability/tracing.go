package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the fillkit tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("fillkit")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartFormatSpan starts a span for a top-level format call.
	// Returns the context with span and the span itself.
	StartFormatSpan(ctx context.Context, callID, template string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartFormatSpan(ctx context.Context, callID, template string) (context.Context, trace.Span) {
	return StartFormatSpan(ctx, callID, template)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartFormatSpan starts a "fillkit.format" span using the global tracer.
func StartFormatSpan(ctx context.Context, callID, template string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "fillkit.format",
		trace.WithAttributes(
			attribute.String("format.call_id", callID),
			attribute.Int("format.template_len", len(template)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
