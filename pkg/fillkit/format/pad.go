package format

import (
	"strings"

	"github.com/randalmurphal/fillkit/pkg/fillkit/decor"
)

// Pad widens s to width visible runes with char. ANSI decoration does not
// count toward the width. Text already at or past width is returned as is.
func Pad(s, char string, width int, dir PadDir) string {
	n := width - decor.VisibleLen(s)
	if n <= 0 {
		return s
	}
	if char == "" {
		char = " "
	}
	switch dir {
	case PadEnd:
		return s + strings.Repeat(char, n)
	case PadCenter:
		lead := n / 2
		return strings.Repeat(char, lead) + s + strings.Repeat(char, n-lead)
	default:
		return strings.Repeat(char, n) + s
	}
}
