package pattern

import (
	"strconv"
	"strings"
)

// rewriteLookbehinds replaces every (?<=X)Y (or (?<!X)Y when negative)
// with an equivalent built from consuming groups, classes and lookahead.
// The first capture group of the result holds what Y matched. A
// lookbehind with no atom after it is left as written.
func rewriteLookbehinds(s string, negative bool) string {
	opener := "(?<="
	if negative {
		opener = "(?<!"
	}
	if !strings.Contains(s, opener) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\':
			end := min(i+2, len(s))
			b.WriteString(s[i:end])
			i = end
			continue
		case s[i] == '[':
			if end, ok := scanClass(s, i); ok {
				b.WriteString(s[i:end])
				i = end
				continue
			}
		case strings.HasPrefix(s[i:], opener):
			if out, next, ok := emulate(s, i, negative); ok {
				b.WriteString(out)
				i = next
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// emulate rewrites the lookbehind group at s[i] and the atom after it.
func emulate(s string, i int, negative bool) (string, int, bool) {
	end, ok := scanGroup(s, i)
	if !ok {
		return "", i, false
	}
	raw := s[i+4 : end-1]
	behind := rewriteLookbehinds(raw, negative)

	target, next, ok := parseAtom(s, end)
	if !ok || target.kind == atomAnchor {
		return "", i, false
	}
	if target.kind == atomGroup {
		target = reparse(target, rewriteLookbehinds(target.body, negative))
	}

	if negative {
		prefix, ok := notPreceded(behind)
		if !ok {
			// regexp2 evaluates the assertion natively
			prefix = "(?<!" + nonCapturing(raw) + ")"
		}
		return prefix + capture(target), next, true
	}
	return "(?:" + nonCapturing(behind) + ")" + capture(target), next, true
}

func reparse(a atom, body string) atom {
	a.body = body
	a.text = body + a.quant
	return a
}

// capture wraps the target atom in the one capturing group the rewrite
// promises. Capturing groups are kept and (?:...) groups are converted.
func capture(a atom) string {
	if a.kind == atomGroup {
		switch {
		case isCapturing(a.body):
			return a.text
		case strings.HasPrefix(a.body, "(?:"):
			return "(" + a.body[3:] + a.quant
		}
	}
	return "(" + a.text + ")"
}

// notPreceded builds a consuming group that matches the text just before a
// position not preceded by x. It reports false when x is outside the
// subset it models exactly: single-character atoms with fixed counts,
// where the first atom may have any count and the last may be unbounded
// ({n,}, + or *) if it cannot overlap the atom before it.
func notPreceded(x string) (string, bool) {
	fixed, run, least, ok := linearize(x)
	if !ok {
		return "", false
	}
	if run == nil {
		return "(?:" + fixedExclusion(fixed, exclude(fixed[len(fixed)-1])) + ")", true
	}

	// The run of the last atom ending at the position is maximal, so it is
	// either shorter than least, or x minus the run does not end before it.
	var b strings.Builder
	b.WriteString("(?:")
	if least > 0 {
		b.WriteString("(?:^|" + exclude(*run) + ")")
		if least > 1 {
			b.WriteString(run.body + "{0," + strconv.Itoa(least-1) + "}")
		}
		b.WriteString("|")
	}
	last := fixed[len(fixed)-1]
	b.WriteString("(?:" + fixedExclusion(fixed, "[^"+classBody(last.body)+classBody(run.body)+"]") + ")")
	switch least {
	case 0:
		b.WriteString(run.body + "*")
	case 1:
		b.WriteString(run.body + "+")
	default:
		b.WriteString(run.body + "{" + strconv.Itoa(least) + ",}")
	}
	b.WriteString(")")
	return b.String(), true
}

// fixedExclusion is the alternation for a fixed sequence a1..ak of
// single-character atoms: either the input starts within the last k-1
// atoms, or, for some j, the atom j places back fails while the j-1 atoms
// after it match. lastExcluder stands in for the j = 1 case.
func fixedExclusion(atoms []atom, lastExcluder string) string {
	k := len(atoms)
	tail := func(n int) string {
		var b strings.Builder
		for _, a := range atoms[k-n:] {
			b.WriteString(a.body)
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString("^")
	if k > 1 {
		b.WriteString("(?:")
		for n := k - 1; n >= 1; n-- {
			b.WriteString(tail(n))
			b.WriteString("|")
		}
		b.WriteString(")")
	}
	b.WriteString("|" + lastExcluder)
	for j := 2; j <= k; j++ {
		b.WriteString("|")
		b.WriteString(exclude(atoms[k-j]))
		b.WriteString(tail(j - 1))
	}
	return b.String()
}

// linearize splits x into single-character atoms and unrolls their counts.
// A leading atom only needs its minimum count, since anything may come
// before it. A trailing unbounded atom is returned as run with its minimum
// count (least); it must be a literal distinct from the literal before it.
func linearize(x string) (fixed []atom, run *atom, least int, ok bool) {
	atoms, ok := splitAtoms(x)
	if !ok {
		return nil, nil, 0, false
	}

	type counted struct {
		a      atom
		lo, hi int
	}
	var seq []counted
	for _, a := range atoms {
		if !singleChar(a) {
			return nil, nil, 0, false
		}
		lo, hi, ok := counts(a.quant)
		if !ok {
			return nil, nil, 0, false
		}
		a.text, a.quant = a.body, ""
		seq = append(seq, counted{a, lo, hi})
	}

	for len(seq) > 0 && seq[0].lo == 0 {
		seq = seq[1:]
	}
	if len(seq) == 0 {
		// x matches the empty string, so every position is preceded by it
		return nil, nil, 0, false
	}
	seq[0].hi = seq[0].lo

	for i, c := range seq {
		switch {
		case c.hi == c.lo:
			for n := 0; n < c.lo; n++ {
				fixed = append(fixed, c.a)
			}
		case c.hi < 0 && i == len(seq)-1 && len(fixed) > 0:
			prev := fixed[len(fixed)-1]
			if c.a.kind != atomLiteral || prev.kind != atomLiteral || strings.EqualFold(c.a.body, prev.body) {
				return nil, nil, 0, false
			}
			r := c.a
			run, least = &r, c.lo
		default:
			return nil, nil, 0, false
		}
	}
	return fixed, run, least, true
}

// singleChar reports whether a always matches exactly one character.
func singleChar(a atom) bool {
	switch a.kind {
	case atomLiteral, atomEscape, atomClass, atomDot:
		return true
	}
	return false
}

// counts reads a quantifier as a minimum and maximum count, with -1 for no
// maximum. Laziness does not change what can precede a position.
func counts(q string) (lo, hi int, ok bool) {
	if len(q) > 1 && q[len(q)-1] == '?' {
		q = q[:len(q)-1]
	}
	switch q {
	case "":
		return 1, 1, true
	case "?":
		return 0, 1, true
	case "*":
		return 0, -1, true
	case "+":
		return 1, -1, true
	}
	if len(q) < 3 || q[0] != '{' || q[len(q)-1] != '}' {
		return 0, 0, false
	}
	lower, upper, hasComma := strings.Cut(q[1:len(q)-1], ",")
	lo, err := strconv.Atoi(lower)
	if err != nil {
		return 0, 0, false
	}
	switch {
	case !hasComma:
		return lo, lo, true
	case upper == "":
		return lo, -1, true
	}
	hi, err = strconv.Atoi(upper)
	if err != nil || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// exclude returns a pattern for one character that a single-character
// atom does not match.
func exclude(a atom) string {
	switch a.kind {
	case atomLiteral:
		return "[^" + classBody(a.body) + "]"
	case atomEscape:
		return "[^" + a.body + "]"
	case atomClass:
		inner := a.body[1 : len(a.body)-1]
		if strings.HasPrefix(inner, "^") {
			return "[" + inner[1:] + "]"
		}
		return "[^" + inner + "]"
	case atomDot:
		return `\n`
	}
	return "(?!" + a.body + `)[\s\S]`
}
