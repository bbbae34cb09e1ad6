package format

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/fillkit/pkg/fillkit/observability"
	"github.com/randalmurphal/fillkit/pkg/fillkit/pattern"
)

// newlineSentinel stands in for newlines while a template is scanned.
const newlineSentinel = `\n`

// Formatter renders templates. Create with New() and configure with Option
// functions. A Formatter is immutable and safe for concurrent use.
type Formatter struct {
	nests    map[string]string
	debug    DebugConfig
	maxDepth int
	compiler *pattern.Compiler
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	logger   *slog.Logger
	grammar  *GrammarTables
}

// New creates a Formatter. nests names templates that Named directives
// can render their values through with <<Name>>; debug selects traced
// shapes.
//
// Example:
//
//	f := format.New(map[string]string{"Full": "%(first)s %(last)s"}, format.DebugConfig{})
//	out, _ := f.Format("%(who<<Full>>)s", map[string]any{
//		"who": map[string]any{"first": "Rae", "last": "Kim"},
//	})
//	// out: "Rae Kim"
func New(nests map[string]string, debug DebugConfig, opts ...Option) *Formatter {
	f := &Formatter{
		nests:    make(map[string]string, len(nests)),
		debug:    debug,
		maxDepth: DefaultMaxDepth,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
		grammar:  Grammar(),
	}
	for k, v := range nests {
		f.nests[k] = v
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.compiler == nil {
		f.compiler = pattern.NewCompiler(nil)
	}
	return f
}

// MaxDepth returns the recursion limit.
func (f *Formatter) MaxDepth() int {
	return f.maxDepth
}

// Format renders template with args. The only error is a
// *RecursionLimitError; every other problem degrades to literal or empty
// output.
func (f *Formatter) Format(template string, args ...any) (string, error) {
	return f.FormatContext(context.Background(), template, args...)
}

// FormatContext is Format with a context for tracing and metrics.
func (f *Formatter) FormatContext(ctx context.Context, template string, args ...any) (string, error) {
	start := time.Now()
	done := observability.TimedOperation()

	c := &call{id: uuid.NewString()}
	ctx, span := f.spans.StartFormatSpan(ctx, c.id, template)
	c.ctx = ctx

	out, err := f.eval(c, 0, template, args, noIteration)

	f.spans.EndSpanWithError(span, err)
	f.metrics.RecordFormat(ctx, time.Since(start), err)
	observability.LogFormat(f.logger, c.id, done(), c.directives, err)
	if err != nil {
		return "", err
	}
	return out, nil
}

// MustFormat is Format that panics on error.
func (f *Formatter) MustFormat(template string, args ...any) string {
	out, err := f.Format(template, args...)
	if err != nil {
		panic(fmt.Sprintf("format: %v", err))
	}
	return out
}

// eval renders one template against its own arguments. Every directive
// match is replaced once, left to right; replacements are not rescanned.
func (f *Formatter) eval(c *call, depth int, template string, args []any, iter iteration) (string, error) {
	if depth > f.maxDepth {
		return "", &RecursionLimitError{Limit: f.maxDepth, Template: template}
	}
	if !strings.Contains(template, "%") {
		return strings.ReplaceAll(template, newlineSentinel, "\n"), nil
	}

	fc := newFormatContext(c, depth, args, iter)
	text := strings.ReplaceAll(template, "\n", newlineSentinel)

	var failure error
	out, err := f.grammar.Locator.ReplaceFunc(text, func(m pattern.Match) string {
		if failure != nil {
			return ""
		}
		s, err := f.directive(fc, m.Text())
		if err != nil {
			failure = err
			return ""
		}
		return s
	})
	if failure != nil {
		return "", failure
	}
	if err != nil {
		// the grammar has no match timeout, so this is unreachable in
		// practice; leave the template alone rather than half-render it
		return template, nil
	}
	return strings.ReplaceAll(out, newlineSentinel, "\n"), nil
}

// directive renders one located directive.
func (f *Formatter) directive(fc *formatContext, text string) (string, error) {
	if text == "%%" {
		return "%", nil
	}
	d, ok := f.grammar.Parse(text)
	if !ok {
		return text, nil
	}
	fc.call.directives++

	var (
		out string
		val any
		err error
	)
	switch d.Shape {
	case ShapeKeyedMap:
		out, val, err = f.renderKeyedMap(fc, d)
	case ShapeList:
		out, val, err = f.renderList(fc, d)
	case ShapeNamed:
		out, val, err = f.renderNamed(fc, d)
	default:
		out, val, err = f.renderScalar(fc, d)
	}
	if err != nil {
		return "", err
	}

	f.metrics.RecordDirective(fc.ctx(), d.Shape.String(), d.Strict)
	f.trace(fc, d, val, out)
	return out, nil
}

// nested evaluates a template one level below fc.
func (f *Formatter) nested(fc *formatContext, template string, args []any, iter iteration) (string, error) {
	return f.eval(fc.call, fc.depth+1, template, args, iter)
}
