// Package value classifies the arguments handed to a formatter.
//
// Kind is a closed set. Of looks at the value's Go type only, so a string is
// always Text even when it reads like a number or a date; LooksNumeric and
// LooksLikeDate answer those questions separately.
package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/randalmurphal/fillkit/pkg/fillkit/dict"
)

// Kind is the runtime category of a value.
type Kind int

const (
	Null Kind = iota
	Text
	Number
	Boolean
	Date
	// Raw covers regex-like values whose source form matters more than
	// their string form.
	Raw
	List
	Object
)

var kindNames = [...]string{"null", "text", "number", "boolean", "date", "raw", "list", "object"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Scalar reports whether values of this kind fill scalar directives.
func (k Kind) Scalar() bool {
	return k != List && k != Object
}

// Sourcer is implemented by compiled patterns that know their source.
type Sourcer interface {
	Source() string
}

// Of classifies v.
func Of(v any) Kind {
	switch t := v.(type) {
	case nil:
		return Null
	case time.Time:
		return Date
	case *time.Time:
		if t == nil {
			return Null
		}
		return Date
	case *regexp.Regexp, *regexp2.Regexp, Sourcer:
		return Raw
	case string, []byte:
		return Text
	case bool:
		return Boolean
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return Number
	}

	if dict.IsAssociative(v) {
		return Object
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return List
	case reflect.Bool:
		return Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.Map:
		return Object
	}
	return Text
}

// Items returns the elements of a List value.
func Items(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
