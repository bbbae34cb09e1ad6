package fillkit

import (
	"sync"

	"github.com/randalmurphal/fillkit/pkg/fillkit/config"
	"github.com/randalmurphal/fillkit/pkg/fillkit/pattern"
)

var (
	defaultOnce    sync.Once
	defaultEngines *Engines
)

// Default returns the shared engines behind the package-level helpers: no
// variables, no nests, default depth and no observability.
func Default() *Engines {
	defaultOnce.Do(func() {
		// an empty configuration cannot fail
		defaultEngines, _ = FromConfig(config.New(nil))
	})
	return defaultEngines
}

// Format renders template with args using the default engines.
//
// Example:
//
//	out, _ := fillkit.Format("%(name)s has %[%s|;/, |&/ and ]s", []string{"a", "b", "c"}, map[string]any{"name": "Rae"})
//	// out: "Rae has a, b and c"
func Format(template string, args ...any) (string, error) {
	return Default().Format(template, args...)
}

// MustFormat is Format that panics on error.
func MustFormat(template string, args ...any) string {
	return Default().Formatter.MustFormat(template, args...)
}

// Compile compiles a pattern with the default engines. Results are cached.
func Compile(text string) (*pattern.Compiled, error) {
	return Default().Compile(text)
}
