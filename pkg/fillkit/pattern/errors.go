package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrPatternSyntax indicates the native regex engine rejected a
	// rewritten pattern.
	ErrPatternSyntax = errors.New("invalid pattern syntax")

	// ErrUndefinedVariable indicates a {{name}} token that the store could
	// not resolve, under MissingError.
	ErrUndefinedVariable = errors.New("undefined variable")
)

// PatternSyntaxError reports a pattern whose rewritten source does not
// compile.
type PatternSyntaxError struct {
	// Pattern is the text passed to Compile.
	Pattern string
	// Source is the rewritten text handed to the engine.
	Source string
	// Err is the engine's error.
	Err error
}

// Error implements the error interface.
func (e *PatternSyntaxError) Error() string {
	return fmt.Sprintf("pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns both ErrPatternSyntax and the engine error.
func (e *PatternSyntaxError) Unwrap() []error {
	return []error{ErrPatternSyntax, e.Err}
}

// UndefinedVariableError lists the tokens that did not resolve.
type UndefinedVariableError struct {
	// Names is the list of unresolved token names, as written.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// Unwrap returns ErrUndefinedVariable.
func (e *UndefinedVariableError) Unwrap() error {
	return ErrUndefinedVariable
}
