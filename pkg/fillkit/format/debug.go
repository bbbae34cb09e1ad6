package format

import (
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/fillkit/pkg/fillkit/observability"
)

// DebugConfig selects which directive shapes are traced. Tracing never
// changes output.
type DebugConfig struct {
	// Shapes to trace. Empty disables tracing.
	Shapes []Shape
	// Logger receives a Debug record per traced directive. Nil keeps
	// tracing to span events only.
	Logger *slog.Logger
}

// Enabled reports whether directives of shape s are traced.
func (c DebugConfig) Enabled(s Shape) bool {
	return slices.Contains(c.Shapes, s)
}

// DebugRecord describes one directive evaluation.
type DebugRecord struct {
	CallID    string
	Depth     int
	Shape     Shape
	Directive string
	Value     any
	Output    string
}

// Attributes returns the record as span event attributes.
func (r DebugRecord) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("format.call_id", r.CallID),
		attribute.Int("directive.depth", r.Depth),
		attribute.String("directive.shape", r.Shape.String()),
		attribute.String("directive.text", r.Directive),
		attribute.String("directive.value", fmt.Sprint(r.Value)),
		attribute.String("directive.output", r.Output),
	}
}

// trace emits a record for a directive evaluation when its shape is
// selected.
func (f *Formatter) trace(fc *formatContext, d *Directive, val any, out string) {
	if !f.debug.Enabled(d.Shape) {
		return
	}
	rec := DebugRecord{
		CallID:    fc.call.id,
		Depth:     fc.depth,
		Shape:     d.Shape,
		Directive: d.Text,
		Value:     val,
		Output:    out,
	}
	logger := observability.EnrichLogger(f.debug.Logger, rec.CallID, rec.Depth)
	observability.LogDirective(logger, rec.Shape.String(), rec.Directive, rec.Value, rec.Output)
	f.spans.AddSpanEvent(fc.ctx(), "fillkit.directive", rec.Attributes()...)
}
