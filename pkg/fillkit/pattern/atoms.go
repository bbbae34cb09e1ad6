package pattern

import (
	"strings"
	"unicode/utf8"
)

type atomKind int

const (
	atomLiteral atomKind = iota
	atomEscape           // a single-character escape usable in a class: \d, \x41, \p{L}
	atomOtherEscape      // backreferences, anchors and other escapes: \1, \k<n>, \b
	atomClass
	atomGroup
	atomDot
	atomAnchor
)

// atom is one quantifiable unit of a pattern.
type atom struct {
	text  string // body plus quantifier
	body  string
	quant string
	kind  atomKind
}

// parseAtom reads the atom starting at s[i]. It reports false at the end
// of input, at '|' or ')', or on an unterminated construct.
func parseAtom(s string, i int) (atom, int, bool) {
	if i >= len(s) {
		return atom{}, i, false
	}
	start := i
	var kind atomKind

	switch c := s[i]; c {
	case '|', ')':
		return atom{}, i, false
	case '\\':
		end, k, ok := scanEscape(s, i)
		if !ok {
			return atom{}, i, false
		}
		i, kind = end, k
	case '[':
		end, ok := scanClass(s, i)
		if !ok {
			return atom{}, i, false
		}
		i, kind = end, atomClass
	case '(':
		end, ok := scanGroup(s, i)
		if !ok {
			return atom{}, i, false
		}
		i, kind = end, atomGroup
	case '.':
		i, kind = i+1, atomDot
	case '^', '$':
		i, kind = i+1, atomAnchor
	default:
		_, size := utf8.DecodeRuneInString(s[i:])
		i, kind = i+size, atomLiteral
	}

	body := s[start:i]
	q := scanQuantifier(s, i)
	return atom{
		text:  s[start:q],
		body:  body,
		quant: s[i:q],
		kind:  kind,
	}, q, true
}

// scanEscape returns the end of the escape at s[i] and its kind.
func scanEscape(s string, i int) (int, atomKind, bool) {
	if i+1 >= len(s) {
		return i, 0, false
	}
	c := s[i+1]
	switch {
	case c == 'x':
		return min(i+4, len(s)), atomEscape, true
	case c == 'u':
		return min(i+6, len(s)), atomEscape, true
	case c == 'c':
		return min(i+3, len(s)), atomEscape, true
	case c == 'p' || c == 'P':
		if i+2 < len(s) && s[i+2] == '{' {
			if j := strings.IndexByte(s[i+2:], '}'); j >= 0 {
				return i + 2 + j + 1, atomEscape, true
			}
		}
		return i + 2, atomEscape, true
	case c == 'k':
		if i+2 < len(s) && (s[i+2] == '<' || s[i+2] == '\'') {
			closer := byte('>')
			if s[i+2] == '\'' {
				closer = '\''
			}
			if j := strings.IndexByte(s[i+3:], closer); j >= 0 {
				return i + 3 + j + 1, atomOtherEscape, true
			}
		}
		return i + 2, atomOtherEscape, true
	case c >= '1' && c <= '9':
		j := i + 2
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		return j, atomOtherEscape, true
	case strings.IndexByte("bBAZzG", c) >= 0:
		return i + 2, atomOtherEscape, true
	}
	_, size := utf8.DecodeRuneInString(s[i+1:])
	return i + 1 + size, atomEscape, true
}

// scanClass returns the index just past the class starting at s[i],
// including .NET subtractions such as [a-z-[aeiou]].
func scanClass(s string, i int) (int, bool) {
	j := i + 1
	if j < len(s) && s[j] == '^' {
		j++
	}
	// a leading ']' is a member, not the end
	if j < len(s) && s[j] == ']' {
		j++
	}
	for j < len(s) {
		switch s[j] {
		case '\\':
			j += 2
			continue
		case '[':
			if s[j-1] == '-' {
				end, ok := scanClass(s, j)
				if !ok {
					return i, false
				}
				j = end
				continue
			}
		case ']':
			return j + 1, true
		}
		j++
	}
	return i, false
}

// scanGroup returns the index just past the balanced group at s[i].
func scanGroup(s string, i int) (int, bool) {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '[':
			end, ok := scanClass(s, j)
			if !ok {
				return i, false
			}
			j = end - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		}
	}
	return i, false
}

// scanQuantifier returns the index past any quantifier at s[i]: *, +, ?,
// {n}, {n,} or {n,m}, each optionally lazy.
func scanQuantifier(s string, i int) int {
	if i >= len(s) {
		return i
	}
	j := i
	switch s[i] {
	case '*', '+', '?':
		j = i + 1
	case '{':
		k := i + 1
		digits := 0
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
			digits++
		}
		if digits == 0 {
			return i
		}
		if k < len(s) && s[k] == ',' {
			k++
			for k < len(s) && s[k] >= '0' && s[k] <= '9' {
				k++
			}
		}
		if k >= len(s) || s[k] != '}' {
			return i
		}
		j = k + 1
	default:
		return i
	}
	if j < len(s) && s[j] == '?' {
		j++
	}
	return j
}

// splitAtoms splits a sequence into atoms. It reports false when the
// sequence has a top-level alternation or cannot be parsed.
func splitAtoms(s string) ([]atom, bool) {
	var atoms []atom
	for i := 0; i < len(s); {
		a, next, ok := parseAtom(s, i)
		if !ok {
			return nil, false
		}
		atoms = append(atoms, a)
		i = next
	}
	return atoms, true
}

// isCapturing reports whether the group body g opens a capturing group.
func isCapturing(g string) bool {
	if !strings.HasPrefix(g, "(") {
		return false
	}
	if !strings.HasPrefix(g, "(?") {
		return true
	}
	return namedGroupOpen(g, 0) > 0
}

// namedGroupOpen returns the length of a named-group opener at s[i]
// ("(?<name>", "(?'name'" or "(?P<name>"), or 0.
func namedGroupOpen(s string, i int) int {
	rest := s[i:]
	var closer byte
	var skip int
	switch {
	case strings.HasPrefix(rest, "(?P<"):
		closer, skip = '>', 4
	case strings.HasPrefix(rest, "(?<"):
		closer, skip = '>', 3
	case strings.HasPrefix(rest, "(?'"):
		closer, skip = '\'', 3
	default:
		return 0
	}
	if len(rest) <= skip || rest[skip] == '=' || rest[skip] == '!' {
		return 0
	}
	j := strings.IndexByte(rest[skip:], closer)
	if j <= 0 {
		return 0
	}
	return skip + j + 1
}

// nonCapturing turns every capturing group in s into a non-capturing one.
func nonCapturing(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteByte(s[i])
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
			continue
		case '[':
			if end, ok := scanClass(s, i); ok {
				b.WriteString(s[i:end])
				i = end - 1
				continue
			}
		case '(':
			if i+1 < len(s) && s[i+1] != '?' {
				b.WriteString("(?:")
				continue
			}
			if n := namedGroupOpen(s, i); n > 0 {
				b.WriteString("(?:")
				i += n - 1
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
