package pattern

import (
	"github.com/dlclark/regexp2"
)

// mustRe compiles one of the package's own expressions.
func mustRe(expr string) *regexp2.Regexp {
	return regexp2.MustCompile(expr, regexp2.None)
}

// replaceFunc replaces every match of re in s with fn's result.
func replaceFunc(re *regexp2.Regexp, s string, fn func(m *regexp2.Match) string) string {
	out, err := re.ReplaceFunc(s, func(m regexp2.Match) string { return fn(&m) }, -1, -1)
	if err != nil {
		// only a match timeout fails here, and internal expressions have none
		return s
	}
	return out
}

// group returns the text of group n and whether it participated.
func group(m *regexp2.Match, n int) (string, bool) {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.String(), true
}

// named returns the text of a named group, or "" when it did not take part.
func named(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}
