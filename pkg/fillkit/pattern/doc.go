// Package pattern compiles a macro-augmented regex dialect into regexp2
// patterns.
//
// # Overview
//
// A Compiler holds a nested table of named fragments (Vars). Patterns refer
// to fragments with {{name}} tokens, and a small set of macros keeps
// hand-written grammars short. The expanded text is handed to
// github.com/dlclark/regexp2.
//
//	c := pattern.NewCompiler(pattern.Vars{
//		"Word": `[A-Za-z]+`,
//		"Sep":  map[string]any{"": ",", "Semi": ";"},
//	})
//	p, err := c.Compile(`/{{Word}}(?:{{Sep}}\s*{{Word}})+/g`)
//
// # Tokens
//
//	{{name}}        a fragment, or a nested table's "" entry
//	{{name.a.b}}    drill into nested tables
//	{{name+a+b}}    name's "" entry followed by siblings a and b
//
// Fragments may reference each other; they are expanded once, when the
// Compiler is built. Tokens that cannot be resolved (unknown names or
// reference cycles) are left in the pattern as written, so a mistake shows up
// as an engine syntax error. WithMissingAction changes that.
//
// # Macros
//
//	<ab/MID/cd>     [ab]MID[cd]; a MID of ^ (optionally quantified) becomes [^abcd]
//	<|chars|>       one character outside chars, or any of chars doubled
//	</BODY/%/N/>    BODY nested inside itself N times at the /%/ placeholder
//	(?<=X)Y         (?:X)(Y)
//	(?<!X)Y         a consuming prefix proving X does not precede, then (Y)
//
// Lookbehinds are emulated so the output of Rewrite also runs on engines
// without lookbehind support. Y always becomes capture group 1 when nothing
// before it captures. A negative lookbehind is emulated only when X is a
// run of single-character atoms with fixed counts, optionally ending in one
// open-ended repeat of a literal that differs from the literal before it;
// any other X stays a native (?<!X) assertion in front of (Y).
//
// The emulations consume the text before Y, so adjacent matches can differ
// from a native lookbehind, and Compiled.Replace replaces that text along
// with Y: /(?<=a)b/ replaced by X turns "abab" into "XX".
//
// # Flags
//
// A trailing /flags (any of g, m, i) after the last slash sets options:
// i ignores case, m makes ^ and $ match at line breaks, and g makes
// Compiled.Replace replace every match.
package pattern
