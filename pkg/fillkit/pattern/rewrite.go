package pattern

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// maxWrapPasses bounds the wrap fixed point. Each pass removes at least one
// wrap token, so only pathological nesting gets near it.
const maxWrapPasses = 64

var (
	// <LEFT/MIDDLE/RIGHT>; LEFT cannot start like a repeat or escape macro,
	// and the (?<...) openers of groups and lookbehinds are never wraps.
	wrapRe = mustRe(`(?<!\\|\(\?|\(\?P)<([^/<>|?+*\s][^/<>]*)/((?:\\.|<\|.*?\|>|[^\\/<>])*)/([^/<>]+)>`)

	// a MIDDLE that is only a negation head: ^, ^+, ^*?, ^{2,3}, ...
	negHeadRe = mustRe(`^\^((?:[+*?]|\{\d+(?:,\d*)?\})\??)?$`)

	escapeRe = mustRe(`(?<!\\)<\|(.*?)\|>`)

	repeatRe      = mustRe(`(?<!\\)</((?:(?!/>).)*?/%/(\d*)(?:(?!/>).)*?)/>`)
	placeholderRe = mustRe(`/%/(\d+)?`)
)

// Rewrite applies the macro pipeline to text: bracket wraps, negated
// literal sets, repeats, then positive and negative lookbehind emulation.
// Text without macros is returned unchanged.
func Rewrite(text string) string {
	text = expandWraps(text)
	text = expandEscapes(text)
	text = expandRepeats(text)
	text = rewriteLookbehinds(text, false)
	text = rewriteLookbehinds(text, true)
	return text
}

// expandWraps turns <LEFT/MIDDLE/RIGHT> into [LEFT]MIDDLE[RIGHT] until no
// wrap remains. Inner wraps resolve first because MIDDLE cannot hold a raw
// '<'.
func expandWraps(text string) string {
	for i := 0; i < maxWrapPasses && strings.Contains(text, "<"); i++ {
		matched := false
		text = replaceFunc(wrapRe, text, func(m *regexp2.Match) string {
			matched = true
			left, _ := group(m, 1)
			mid, _ := group(m, 2)
			right, _ := group(m, 3)
			lc, rc := classBody(left), classBody(right)

			if h, err := negHeadRe.FindStringMatch(mid); err == nil && h != nil {
				quant, _ := group(h, 1)
				mid = "[^" + lc + rc + "]" + quant
			}
			return "[" + lc + "]" + mid + "[" + rc + "]"
		})
		if !matched {
			break
		}
	}
	return text
}

// classBody escapes set members for use inside [...]. Existing backslash
// escapes pass through, so "\s" stays a class escape.
func classBody(chars string) string {
	var b strings.Builder
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		switch c {
		case '\\':
			b.WriteByte(c)
			if i+1 < len(chars) {
				i++
				b.WriteByte(chars[i])
			} else {
				b.WriteByte('\\')
			}
		case ']', '[', '^', '-':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// expandEscapes turns <|chars|> into a group matching one character
// outside chars, or any member of chars written twice.
func expandEscapes(text string) string {
	if !strings.Contains(text, "<|") {
		return text
	}
	return replaceFunc(escapeRe, text, func(m *regexp2.Match) string {
		chars, _ := group(m, 1)
		if chars == "" {
			return `(?:[\s\S])`
		}
		var b strings.Builder
		b.WriteString("(?:[^")
		b.WriteString(classBody(chars))
		b.WriteString("]")
		for _, r := range chars {
			lit := quoteRune(r)
			b.WriteString("|")
			b.WriteString(lit)
			b.WriteString(lit)
		}
		b.WriteString(")")
		return b.String()
	})
}

// quoteRune escapes r for use as a literal outside a class.
func quoteRune(r rune) string {
	if r < 0x80 && strings.ContainsRune(`\.+*?()|[]{}^$#-/<>!=:,'"&~%@`+"`", r) {
		return `\` + string(r)
	}
	if r == ' ' {
		return `\ `
	}
	return string(r)
}

// expandRepeats unrolls </BODY/> where BODY holds a /%/N placeholder: the
// placeholder is replaced by a copy of BODY N-1 times, and removed from the
// innermost copy.
func expandRepeats(text string) string {
	if !strings.Contains(text, "</") {
		return text
	}
	return replaceFunc(repeatRe, text, func(m *regexp2.Match) string {
		body, _ := group(m, 1)
		count, _ := group(m, 2)
		return repeat(body, count)
	})
}

func repeat(body, count string) string {
	n, err := strconv.Atoi(count)
	if err != nil || n < 1 {
		n = 1
	}
	res := replaceFirst(placeholderRe, body, "")
	for r := 1; r < n; r++ {
		res = replaceFirst(placeholderRe, body, res)
	}
	return res
}

// replaceFirst replaces the first match of re literally.
func replaceFirst(re *regexp2.Regexp, s, with string) string {
	out, err := re.ReplaceFunc(s, func(regexp2.Match) string { return with }, -1, 1)
	if err != nil {
		return s
	}
	return out
}
