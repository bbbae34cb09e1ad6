package format

import (
	"math"
	"strconv"

	"github.com/randalmurphal/fillkit/pkg/fillkit/datefmt"
	"github.com/randalmurphal/fillkit/pkg/fillkit/dict"
	"github.com/randalmurphal/fillkit/pkg/fillkit/value"
)

// Buckets are a call's arguments split by what consumes them. Scalar
// directives read Scalars in order, List directives read Lists and KeyedMap
// directives read Objects, each with its own cursor.
type Buckets struct {
	Scalars []any
	Lists   []any
	Objects []any
	// Lookup is the trailing associative argument, which Named directives
	// resolve keys against. It also stays in Objects.
	Lookup any
}

// Classify partitions args into buckets, keeping call order within each.
func Classify(args []any) Buckets {
	var b Buckets
	for _, a := range args {
		switch value.Of(a) {
		case value.List:
			b.Lists = append(b.Lists, a)
		case value.Object:
			b.Objects = append(b.Objects, a)
		default:
			b.Scalars = append(b.Scalars, a)
		}
	}
	if n := len(args); n > 0 && value.Of(args[n-1]) == value.Object {
		b.Lookup = args[n-1]
	}
	return b
}

// Accepts reports whether a scalar value fits a type tag.
func Accepts(tag byte, v any) bool {
	switch tag {
	case 's':
		return value.Of(v) == value.Text && !value.LooksNumeric(v)
	case 'i', 'f':
		k := value.Of(v)
		return k == value.Number || (k == value.Text && value.LooksNumeric(v))
	case 'd':
		return value.LooksLikeDate(v)
	case 'b':
		return value.Of(v) == value.Boolean
	case 'a':
		return value.Of(v) == value.List
	case 'o':
		return value.Of(v) == value.Object
	case 'r':
		return true
	}
	return false
}

// coerce renders an accepted value for its type.
func coerce(t TypeSpec, v any) string {
	switch t.Tag {
	case 'i':
		s := value.String(v)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return s
		}
		f, _ := value.ToFloat64(v)
		f = math.Trunc(f)
		if f == 0 {
			f = 0 // no "-0"
		}
		return strconv.FormatFloat(f, 'f', 0, 64)
	case 'f':
		f, _ := value.ToFloat64(v)
		return strconv.FormatFloat(f, 'f', t.Decimals, 64)
	case 'd':
		tm, err := datefmt.Parse(v)
		if err != nil {
			return value.String(v)
		}
		return datefmt.Render(tm, t.Layout)
	case 'r':
		return value.RawString(v)
	}
	return value.String(v)
}

// record is the {key, value} pair a KeyedMap formats its inner template
// against. It answers to k/key and v/value.
type record struct {
	key   string
	value any
}

var (
	_ dict.Lookuper = record{}
	_ dict.Entrier  = record{}
)

func (r record) Lookup(name string) (any, bool) {
	switch name {
	case "k", "key":
		return r.key, true
	case "v", "value":
		return r.value, true
	}
	return nil, false
}

func (r record) DictEntries() []dict.Entry {
	return []dict.Entry{
		{Key: "k", Value: r.key, Pos: 1, Index: 0},
		{Key: "v", Value: r.value, Pos: 1, Index: 1},
	}
}
