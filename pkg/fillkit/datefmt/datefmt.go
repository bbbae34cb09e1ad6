// Package datefmt parses date-like values and renders them with strftime
// layouts.
//
// Layouts use C strftime directives. '$' is accepted in place of '%' so a
// layout can be written inside a formatter directive without colliding
// with the directive marker: "$Y-$m-$d" and "%Y-%m-%d" are the same.
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	strftime "github.com/ncruces/go-strftime"
)

// DefaultLayout renders as "02/01/06-03:04:05PM".
const DefaultLayout = "%d/%m/%y-%I:%M:%S%p"

// ErrNotADate is returned when a value cannot be read as a date.
var ErrNotADate = errors.New("not a date")

// layouts are tried in order by Parse.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006",
	"Mon, 02 Jan 2006 15:04:05",
}

// Parse reads v as a date. It accepts time.Time, *time.Time and strings in
// one of the common ISO, RFC and calendar layouts.
func Parse(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("nil time: %w", ErrNotADate)
		}
		return *t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, fmt.Errorf("empty string: %w", ErrNotADate)
		}
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrNotADate)
	}
	return time.Time{}, fmt.Errorf("%T: %w", v, ErrNotADate)
}

// Looks reports whether Parse would accept v.
func Looks(v any) bool {
	_, err := Parse(v)
	return err == nil
}

// Layout normalizes a directive layout: '$' becomes '%' and an empty
// layout becomes DefaultLayout.
func Layout(layout string) string {
	if layout == "" {
		return DefaultLayout
	}
	return strings.ReplaceAll(layout, "$", "%")
}

// Render formats t with a strftime layout after normalizing it with Layout.
func Render(t time.Time, layout string) string {
	return strftime.Format(Layout(layout), t)
}

// ISO renders t as RFC 3339 with millisecond precision in UTC, the form
// used for raw date output.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
