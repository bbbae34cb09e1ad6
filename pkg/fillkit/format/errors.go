package format

import (
	"errors"
	"fmt"
)

// ErrRecursionLimit indicates nested template evaluation went deeper than
// the Formatter's MaxDepth.
var ErrRecursionLimit = errors.New("template recursion limit exceeded")

// RecursionLimitError reports where the depth limit was hit. It is raised
// once, at the deepest evaluation, and returned unchanged by every caller
// above it.
type RecursionLimitError struct {
	// Limit is the configured maximum depth.
	Limit int
	// Template is the template that would have been evaluated past the
	// limit.
	Template string
}

// Error implements the error interface.
func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("template recursion deeper than %d evaluating %q", e.Limit, e.Template)
}

// Unwrap returns ErrRecursionLimit for errors.Is support.
func (e *RecursionLimitError) Unwrap() error {
	return ErrRecursionLimit
}
