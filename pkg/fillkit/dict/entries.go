package dict

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entrier is implemented by values that expose their own entries.
type Entrier interface {
	DictEntries() []Entry
}

// Lookuper is implemented by values that resolve names themselves.
type Lookuper interface {
	Lookup(name string) (any, bool)
}

// FromOrderedMap copies an ordered map into a Dict, keeping its order.
func FromOrderedMap[V any](om *orderedmap.OrderedMap[string, V]) *Dict {
	d := &Dict{}
	if om == nil {
		return d
	}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		d.Add(pair.Key, pair.Value)
	}
	return d
}

// IsAssociative reports whether Entries can iterate v.
func IsAssociative(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case *Dict, Dict, Entrier,
		*orderedmap.OrderedMap[string, any], *orderedmap.OrderedMap[string, string]:
		return true
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Map:
		return true
	case reflect.Struct:
		// time.Time and friends carry no exported fields
		return exportedFieldCount(rv.Type()) > 0
	}
	return false
}

// Entries returns the entries of an associative value in a stable order:
// insertion order for Dicts and ordered maps, sorted key order for Go
// maps, and declaration order for structs.
func Entries(v any) ([]Entry, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case *Dict:
		return m.Entries(), true
	case Dict:
		return m.Entries(), true
	case Entrier:
		return m.DictEntries(), true
	case *orderedmap.OrderedMap[string, any]:
		return FromOrderedMap(m).Entries(), true
	case *orderedmap.OrderedMap[string, string]:
		return FromOrderedMap(m).Entries(), true
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		return mapEntries(rv), true
	case reflect.Struct:
		if exportedFieldCount(rv.Type()) == 0 {
			return nil, false
		}
		return structEntries(rv), true
	}
	return nil, false
}

// Lookup resolves name against an associative value. Dicts accept
// "key$N" addressing; structs match yaml or json tags, then field names.
func Lookup(v any, name string) (any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case *Dict:
		return m.Get(name)
	case Dict:
		return m.Get(name)
	case Lookuper:
		return m.Lookup(name)
	case *orderedmap.OrderedMap[string, any]:
		return m.Get(name)
	case *orderedmap.OrderedMap[string, string]:
		return m.Get(name)
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			for _, e := range mapEntries(rv) {
				if e.Key == name {
					return e.Value, true
				}
			}
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		for _, e := range structEntries(rv) {
			if e.Key == name {
				return e.Value, true
			}
		}
		for _, e := range structEntries(rv) {
			if strings.EqualFold(e.Key, name) {
				return e.Value, true
			}
		}
	}
	return nil, false
}

func mapEntries(rv reflect.Value) []Entry {
	keys := rv.MapKeys()
	names := make([]string, len(keys))
	order := make([]int, len(keys))
	for i, k := range keys {
		names[i] = toKey(k.Interface())
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return names[order[a]] < names[order[b]] })

	d := &Dict{}
	for _, i := range order {
		d.Add(names[i], rv.MapIndex(keys[i]).Interface())
	}
	return d.entries
}

func structEntries(rv reflect.Value) []Entry {
	d := &Dict{}
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		d.Add(name, rv.Field(i).Interface())
	}
	return d.entries
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"yaml", "json"} {
		if v, ok := f.Tag.Lookup(tag); ok {
			name, _, _ := strings.Cut(v, ",")
			if name != "" {
				return name
			}
		}
	}
	return f.Name
}

func exportedFieldCount(t reflect.Type) int {
	n := 0
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			n++
		}
	}
	return n
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func toKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
