/*
Package fillkit formats text with printf-like templates and composes
regular expressions from named fragments.

# Overview

Two engines do the work:

  - pattern.Compiler expands {{name}} variables and a small macro language
    (bracket wraps, escape sets, repeats, lookbehind emulation) into
    regexp2 patterns, and caches what it compiles.
  - format.Formatter renders templates whose directives take scalars,
    iterate lists and maps, look up named values and decorate the result
    with padding, case, color, search/replace and affixes.

Both run without configuration through the package-level helpers:

	out, err := fillkit.Format("%[%s|;/, |&/ and ]s", []string{"red", "green", "blue"})
	// out: "red, green and blue"

	p, err := fillkit.Compile(`<ab/^/cd>`)
	// p.Source(): "[ab][^abcd][cd]"

# Configured Engines

Load builds a Compiler and a Formatter from a YAML or JSON file. The
Formatter compiles search/replace patterns through the Compiler, so both
see the same variables:

	engines, err := fillkit.Load("fillkit.yaml", fillkit.WithLogger(logger))
	if err != nil {
	    log.Fatal(err)
	}
	defer engines.Close()

	out, err := engines.Format("%(who<<Full>>)s", map[string]any{
	    "who": map[string]any{"first": "Rae", "last": "Kim"},
	})

See the config package for the recognized keys.

# Observability

WithLogger, WithMetrics and WithTracing enable slog records and
OpenTelemetry metrics and spans. The debug key selects directive shapes
whose evaluations are logged at Debug level and added to the format span
as events.

# Errors

Formatting degrades rather than fails: mismatched types, missing keys and
malformed options render literally or as nothing. Two errors remain:

  - pattern.PatternSyntaxError when regexp2 rejects an expanded pattern
  - format.RecursionLimitError when nested templates go deeper than
    max_depth

Configuration problems are ConfigErrors, which match ErrInvalidConfig.
*/
package fillkit
