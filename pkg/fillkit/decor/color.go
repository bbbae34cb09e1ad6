// Package decor applies the text decorations a directive can ask for:
// ANSI colors and styles, case transforms, and the visible-width
// measurement padding relies on.
//
// Every decoration is a no-op for names or codes it does not know.
package decor

import (
	"strings"

	"github.com/fatih/color"
)

var foregrounds = map[string]color.Attribute{
	"black":     color.FgBlack,
	"red":       color.FgRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"blue":      color.FgBlue,
	"magenta":   color.FgMagenta,
	"cyan":      color.FgCyan,
	"white":     color.FgWhite,
	"gray":      color.FgHiBlack,
	"grey":      color.FgHiBlack,
	"ltred":     color.FgHiRed,
	"ltgreen":   color.FgHiGreen,
	"ltyellow":  color.FgHiYellow,
	"ltblue":    color.FgHiBlue,
	"ltmagenta": color.FgHiMagenta,
	"ltcyan":    color.FgHiCyan,
	"ltwhite":   color.FgHiWhite,
}

var backgrounds = map[string]color.Attribute{
	"bgblack":   color.BgBlack,
	"bgred":     color.BgRed,
	"bggreen":   color.BgGreen,
	"bgyellow":  color.BgYellow,
	"bgblue":    color.BgBlue,
	"bgmagenta": color.BgMagenta,
	"bgcyan":    color.BgCyan,
	"bgwhite":   color.BgWhite,
}

var styles = map[string]color.Attribute{
	"reset":         color.Reset,
	"bold":          color.Bold,
	"dim":           color.Faint,
	"italic":        color.Italic,
	"underline":     color.Underline,
	"inverse":       color.ReverseVideo,
	"hidden":        color.Concealed,
	"strikethrough": color.CrossedOut,
}

// Color wraps s in a foreground color such as "red" or "ltBlue".
func Color(s, name string) string {
	return wrap(s, foregrounds, strings.ToLower(name))
}

// Background wraps s in a background color. Both "bgBlue" and "blue" are
// accepted.
func Background(s, name string) string {
	key := strings.ToLower(name)
	if !strings.HasPrefix(key, "bg") {
		key = "bg" + key
	}
	return wrap(s, backgrounds, key)
}

// Style wraps s in a text style such as "bold" or "underline".
func Style(s, name string) string {
	return wrap(s, styles, strings.ToLower(name))
}

// Font accepts any name from the color, background or style tables.
func Font(s, name string) string {
	key := strings.ToLower(name)
	for _, table := range []map[string]color.Attribute{foregrounds, backgrounds, styles} {
		if _, ok := table[key]; ok {
			return wrap(s, table, key)
		}
	}
	return s
}

// Spec names the decorations for one value. Empty fields are skipped.
type Spec struct {
	Font       string
	Color      string
	Background string
	Style      string
}

// IsZero reports whether the spec decorates nothing.
func (sp Spec) IsZero() bool {
	return sp == Spec{}
}

// Apply decorates s in font, color, background, style order.
func (sp Spec) Apply(s string) string {
	if sp.Font != "" {
		s = Font(s, sp.Font)
	}
	if sp.Color != "" {
		s = Color(s, sp.Color)
	}
	if sp.Background != "" {
		s = Background(s, sp.Background)
	}
	if sp.Style != "" {
		s = Style(s, sp.Style)
	}
	return s
}

func wrap(s string, table map[string]color.Attribute, key string) string {
	attr, ok := table[key]
	if !ok {
		return s
	}
	c := color.New(attr)
	// output is a string, not a terminal, so tty detection does not apply
	c.EnableColor()
	return c.Sprint(s)
}
