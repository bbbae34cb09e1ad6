package decor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers carry state, so each call builds its own.
func upper() cases.Caser { return cases.Upper(language.Und) }
func lower() cases.Caser { return cases.Lower(language.Und) }

// title keeps "iPhone" and "HTTP" intact.
func title() cases.Caser { return cases.Title(language.Und, cases.NoLower) }

// Case transforms s by code: U upper, L lower, T title, S sentence.
// Codes are case-insensitive and only the first letter counts.
func Case(s, code string) string {
	if code == "" {
		return s
	}
	r, _ := utf8.DecodeRuneInString(code)
	switch unicode.ToUpper(r) {
	case 'U':
		return upper().String(s)
	case 'L':
		return lower().String(s)
	case 'T':
		return title().String(s)
	case 'S':
		return sentence(s)
	}
	return s
}

// sentence upper-cases the first letter after any leading whitespace.
func sentence(s string) string {
	i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if i < 0 {
		return s
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[:i] + upper().String(s[i:i+size]) + s[i+size:]
}
