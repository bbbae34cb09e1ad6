package pattern

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/fillkit/pkg/fillkit/cache"
	"github.com/randalmurphal/fillkit/pkg/fillkit/observability"
)

// MissingAction specifies how to handle {{name}} tokens the store cannot
// resolve.
type MissingAction int

const (
	// MissingKeep keeps the token as-is, so the engine sees it literally.
	// This is the default behavior.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the token with an empty string.
	MissingEmpty

	// MissingError makes Compile return an UndefinedVariableError.
	MissingError
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithMissingAction sets how unresolved tokens are handled.
//
// Default: MissingKeep (keep token as-is)
//
// Example:
//
//	c := NewCompiler(nil, WithMissingAction(MissingError))
//	_, err := c.Compile("a{{Sep}}b")
//	// err: "undefined variable: Sep"
func WithMissingAction(action MissingAction) Option {
	return func(c *Compiler) {
		c.missingAction = action
	}
}

// WithSourceStore persists expanded sources so that expansion can be
// skipped for patterns seen before, even across processes.
//
// Entries are keyed by the variable store's fingerprint and the pattern
// text, so a store change never serves a stale expansion. Store failures
// are logged and otherwise ignored.
func WithSourceStore(store cache.Store) Option {
	return func(c *Compiler) {
		c.sources = store
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
//
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *Compiler) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithMatchTimeout bounds each match operation of compiled patterns.
// Zero means no timeout.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *Compiler) {
		c.matchTimeout = d
	}
}
