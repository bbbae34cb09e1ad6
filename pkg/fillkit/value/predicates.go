package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/randalmurphal/fillkit/pkg/fillkit/datefmt"
	"github.com/randalmurphal/fillkit/pkg/fillkit/dict"
)

// IsTruthy returns whether a value is truthy.
// nil, false, empty strings, zero and NaN numbers, invalid dates and empty
// lists or objects are false; everything else is true.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []byte:
		return len(val) > 0
	case time.Time:
		return !val.IsZero()
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	}

	switch Of(v) {
	case Null:
		return false
	case Number:
		f, _ := ToFloat64(v)
		return f != 0 && !math.IsNaN(f)
	case Boolean:
		return reflect.Indirect(reflect.ValueOf(v)).Bool()
	case List:
		items, _ := Items(v)
		return len(items) > 0
	case Object:
		entries, _ := dict.Entries(v)
		if entries == nil {
			// structs always count
			return reflect.Indirect(reflect.ValueOf(v)).Kind() == reflect.Struct
		}
		return len(entries) > 0
	}
	return true
}

// IsEmpty reports whether v renders as nothing: nil, the empty string, or
// a list or object without elements.
func IsEmpty(v any) bool {
	switch Of(v) {
	case Null:
		return true
	case Text:
		return String(v) == ""
	case List:
		items, _ := Items(v)
		return len(items) == 0
	case Object:
		entries, ok := dict.Entries(v)
		return ok && len(entries) == 0
	}
	return false
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ToFloat64 converts a number or numeric-looking text to float64.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		return parseNumeric(val)
	case bool, nil:
		return 0, false
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		return parseNumeric(rv.String())
	}
	return 0, false
}

// LooksNumeric reports whether v is a number or text that parses as one.
func LooksNumeric(v any) bool {
	switch Of(v) {
	case Number:
		return true
	case Text:
		_, ok := parseNumeric(String(v))
		return ok
	}
	return false
}

// LooksLikeDate reports whether v is a date or text in a recognized date
// layout.
func LooksLikeDate(v any) bool {
	switch Of(v) {
	case Date:
		return true
	case Text:
		return datefmt.Looks(String(v))
	}
	return false
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// "NaN" and "Inf" parse but do not read as numbers in a template
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String stringifies v the way a plain "%s" directive shows it.
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case *regexp2.Regexp:
		return val.String()
	case Sourcer:
		return val.Source()
	}
	return fmt.Sprint(v)
}

// RawString renders the literal source form of v: strings single-quoted
// with quotes doubled, booleans as 1 or 0, patterns as their bare source,
// nil as NULL and dates as quoted ISO-8601.
func RawString(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case *regexp.Regexp:
		return val.String()
	case *regexp2.Regexp:
		return val.String()
	case Sourcer:
		return val.Source()
	case time.Time:
		return "'" + datefmt.ISO(val) + "'"
	case *time.Time:
		if val == nil {
			return "NULL"
		}
		return "'" + datefmt.ISO(*val) + "'"
	}

	switch Of(v) {
	case Null:
		return "NULL"
	case Number:
		return String(v)
	case Text:
		return "'" + strings.ReplaceAll(String(v), "'", "''") + "'"
	}
	return String(v)
}
