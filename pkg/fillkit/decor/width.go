package decor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiSGR = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Strip removes ANSI color and style sequences.
func Strip(s string) string {
	if !strings.Contains(s, "\x1b[") {
		return s
	}
	return ansiSGR.ReplaceAllString(s, "")
}

// VisibleLen counts the runes of s that a terminal would show.
func VisibleLen(s string) int {
	return utf8.RuneCountInString(Strip(s))
}
