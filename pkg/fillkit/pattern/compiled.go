package pattern

import (
	"github.com/dlclark/regexp2"
)

// Compiled is a native pattern together with the text it came from.
type Compiled struct {
	re      *regexp2.Regexp
	pattern string
	source  string
	flags   string
	global  bool
}

// Regexp returns the underlying regexp2 pattern.
func (p *Compiled) Regexp() *regexp2.Regexp { return p.re }

// Source returns the rewritten body handed to the engine.
func (p *Compiled) Source() string { return p.source }

// Pattern returns the text the pattern was compiled from.
func (p *Compiled) Pattern() string { return p.pattern }

// Flags returns the trailing flag letters.
func (p *Compiled) Flags() string { return p.flags }

// Global reports whether the g flag was given.
func (p *Compiled) Global() bool { return p.global }

// String returns the source in /body/flags form.
func (p *Compiled) String() string {
	return "/" + p.source + "/" + p.flags
}

// MatchString reports whether s contains a match. A match timeout counts
// as no match.
func (p *Compiled) MatchString(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

// Replace substitutes repl for matches in s: every match when the pattern
// is global, otherwise the first. repl may use $1 and ${name} references.
func (p *Compiled) Replace(s, repl string) (string, error) {
	count := 1
	if p.global {
		count = -1
	}
	return p.re.Replace(s, repl, -1, count)
}

// ReplaceAll substitutes repl for every match in s regardless of the g flag.
func (p *Compiled) ReplaceAll(s, repl string) (string, error) {
	return p.re.Replace(s, repl, -1, -1)
}

// Match is one match of a Compiled pattern.
type Match struct {
	m *regexp2.Match
}

// Text returns the matched text.
func (m Match) Text() string { return m.m.String() }

// Index returns the rune offset of the match.
func (m Match) Index() int { return m.m.Index }

// Group returns the text of group n, or "" when it did not take part.
func (m Match) Group(n int) string {
	s, _ := group(m.m, n)
	return s
}

// Named returns the text of a named group, or "" when it did not take part.
func (m Match) Named(name string) string {
	return named(m.m, name)
}

// Has reports whether a named group took part in the match.
func (m Match) Has(name string) bool {
	g := m.m.GroupByName(name)
	return g != nil && len(g.Captures) > 0
}

// Groups returns the text of every numbered group, the whole match first.
func (m Match) Groups() []string {
	gs := m.m.Groups()
	out := make([]string, len(gs))
	for i := range gs {
		if len(gs[i].Captures) > 0 {
			out[i] = gs[i].String()
		}
	}
	return out
}

// FindString returns the first match in s.
func (p *Compiled) FindString(s string) (Match, bool) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return Match{}, false
	}
	return Match{m: m}, true
}

// FindAll returns every non-overlapping match in s.
func (p *Compiled) FindAll(s string) []Match {
	var out []Match
	m, err := p.re.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, Match{m: m})
		m, err = p.re.FindNextMatch(m)
	}
	return out
}

// ReplaceFunc replaces every match in s with fn's result.
func (p *Compiled) ReplaceFunc(s string, fn func(Match) string) (string, error) {
	return p.re.ReplaceFunc(s, func(m regexp2.Match) string {
		return fn(Match{m: &m})
	}, -1, -1)
}
