package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordCompile does nothing.
func (NoopMetrics) RecordCompile(_ context.Context, _ bool, _ error) {}

// RecordFormat does nothing.
func (NoopMetrics) RecordFormat(_ context.Context, _ time.Duration, _ error) {}

// RecordDirective does nothing.
func (NoopMetrics) RecordDirective(_ context.Context, _ string, _ bool) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartFormatSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartFormatSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
