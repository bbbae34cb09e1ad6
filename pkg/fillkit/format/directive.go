package format

import (
	"strconv"
	"strings"

	"github.com/randalmurphal/fillkit/pkg/fillkit/decor"
)

// Shape identifies which of the four directive forms a directive takes.
type Shape int

const (
	// ShapeScalar is %s, %!5.2f, %|^/U|s and friends.
	ShapeScalar Shape = iota
	// ShapeList is %[inner]s, iterating a list argument.
	ShapeList
	// ShapeKeyedMap is %{inner}s, iterating an associative argument.
	ShapeKeyedMap
	// ShapeNamed is %(key)s, looking a key up in the trailing associative
	// argument.
	ShapeNamed
)

var shapeNames = [...]string{"scalar", "list", "keyed_map", "named"}

// Debug letters, as accepted by ParseShapes.
var shapeLetters = [...]byte{'N', 'L', 'O', 'K'}

func (s Shape) String() string {
	if s >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "Shape(" + strconv.Itoa(int(s)) + ")"
}

// Letter returns the single-letter debug code for s: N (scalar), L (list),
// O (keyed map) or K (named).
func (s Shape) Letter() byte {
	if s >= 0 && int(s) < len(shapeLetters) {
		return shapeLetters[s]
	}
	return '?'
}

// ParseShapes reads debug letters (case-insensitive) into shapes. Unknown
// letters are skipped.
func ParseShapes(letters ...string) []Shape {
	var out []Shape
	for _, l := range letters {
		l = strings.ToUpper(strings.TrimSpace(l))
		for s, c := range shapeLetters {
			if l == string(c) {
				out = append(out, Shape(s))
			}
		}
	}
	return out
}

// AllShapes lists every shape.
func AllShapes() []Shape {
	return []Shape{ShapeScalar, ShapeList, ShapeKeyedMap, ShapeNamed}
}

// Directive is one parsed directive.
type Directive struct {
	Shape Shape
	// Text is the directive exactly as written in the template.
	Text   string
	Strict bool

	// Inner is the per-element template of a List or KeyedMap.
	Inner string
	// Keys are the names a Named directive looks up, in order.
	Keys []string
	// Nests name the constructor templates a Named directive renders its
	// values through.
	Nests []string

	Options OptionSet
	Pad     PadSpec
	Type    TypeSpec
}

// OptionSet holds the |mod/value options of a directive, unescaped.
type OptionSet struct {
	Prefix    string
	Suffix    string
	Delim     string
	LastDelim string
	Case      string
	Replace   string
	Color     decor.Spec
	// Clamps come from |#>/M and |#</M.
	Clamps []Clamp
}

// PadDir is the side padding goes on.
type PadDir int

const (
	// PadStart prepends padding (right-justifies). No flag.
	PadStart PadDir = iota
	// PadEnd appends padding (left-justifies). The - flag.
	PadEnd
	// PadCenter splits padding, odd remainder trailing. The + flag.
	PadCenter
)

// PadSpec is the parsed (c+)?(width|#)([-+])?({clamp})? part of a directive.
type PadSpec struct {
	// Char is the pad character, a single space unless given.
	Char  string
	Width int
	// Natural is the # width: the widest sibling in the enclosing
	// iteration.
	Natural bool
	Dir     PadDir
	Clamps  []Clamp
}

// Enabled reports whether the spec asks for any padding at all.
func (p PadSpec) Enabled() bool {
	return p.Natural || p.Width > 0
}

// Clamp restricts padding to iteration elements by index: {N>M} pads only
// when N is greater than M, {N<M} only when it is less. N is a number or #,
// the element's own index.
type Clamp struct {
	// Current means the subject is the element's index (#).
	Current bool
	// Subject is the literal subject when Current is false.
	Subject int
	// Op is '<' or '>'.
	Op byte
	// Threshold is M as written: empty, unsigned, or signed (relative to
	// the iteration length).
	Threshold string
}

// Allows reports whether an element at index of an iteration of length
// allows padding.
func (c Clamp) Allows(index, length int) bool {
	subject := c.Subject
	if c.Current {
		subject = index
	}

	var m int
	switch {
	case c.Threshold == "":
		if c.Op == '<' {
			m = length - 1
		}
	case c.Threshold[0] == '+' || c.Threshold[0] == '-':
		n, err := strconv.Atoi(c.Threshold)
		if err != nil {
			return true
		}
		m = length + n
	default:
		n, err := strconv.Atoi(c.Threshold)
		if err != nil {
			return true
		}
		m = n
	}

	if c.Op == '<' {
		return subject < m
	}
	return subject > m
}

// TypeSpec is the trailing type of a directive.
type TypeSpec struct {
	// Tag is one of s d i f b a o r.
	Tag byte
	// Decimals is the .N of a float directive.
	Decimals int
	// Layout is the strftime layout of a date directive, "" for the
	// default.
	Layout string
	// Text is the type as written, e.g. ".2f".
	Text string
}

// text returns the tag followed by its refinement, in directive syntax.
func (t TypeSpec) text() string {
	if t.Text != "" {
		return t.Text
	}
	if t.Tag == 0 {
		return "s"
	}
	return string(t.Tag)
}
