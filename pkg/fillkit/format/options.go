package format

import (
	"log/slog"

	"github.com/randalmurphal/fillkit/pkg/fillkit/observability"
	"github.com/randalmurphal/fillkit/pkg/fillkit/pattern"
)

// DefaultMaxDepth bounds nested template evaluation unless WithMaxDepth
// says otherwise.
const DefaultMaxDepth = 64

// Option configures a Formatter.
type Option func(*Formatter)

// WithMaxDepth sets how deep nested templates (inner templates, nests and
// prefix/suffix templates) may recurse.
// Default: 64
//
// Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.maxDepth = n
		}
	}
}

// WithCompiler sets the pattern compiler used for |=/pattern/replacement
// options, so replacement patterns can use its variables and macros.
//
// Default: a compiler with no variables.
//
// Example:
//
//	c := pattern.NewCompiler(pattern.Vars{"Vowel": "[aeiou]"})
//	f := format.New(nil, format.DebugConfig{}, format.WithCompiler(c))
//	out, _ := f.Format("%|=/{{Vowel}}/*|s", "banana") // "b*n*n*"
func WithCompiler(c *pattern.Compiler) Option {
	return func(f *Formatter) {
		if c != nil {
			f.compiler = c
		}
	}
}

// WithMetrics sets the metrics recorder.
//
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(f *Formatter) {
		if m != nil {
			f.metrics = m
		}
	}
}

// WithSpanManager sets the span manager. Each top-level call opens a
// "fillkit.format" span, and traced directives become its events.
//
// Default: observability.NoopSpanManager{}
func WithSpanManager(sm observability.SpanManager) Option {
	return func(f *Formatter) {
		if sm != nil {
			f.spans = sm
		}
	}
}

// WithLogger sets the logger for per-call summaries. Directive records go
// to DebugConfig.Logger instead. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Formatter) {
		f.logger = logger
	}
}
