// Package dict is an insertion-ordered multimap.
//
// A Dict keeps duplicate keys. Each entry knows its position among the
// entries sharing its key (1-based) and its absolute index (0-based), and
// lookups accept either "name" (the first entry) or "name$N" (the Nth).
//
// Entries and Lookup extend the same contract to the other associative
// values a formatter is handed: Go maps, structs and
// wk8/go-ordered-map maps.
package dict

import (
	"iter"
	"strconv"
	"strings"
)

// Entry is one key/value pair of an associative value.
type Entry struct {
	Key   string
	Value any
	// Pos is the 1-based position among entries with the same key.
	Pos int
	// Index is the 0-based position in iteration order.
	Index int
}

// Dict is an ordered multimap. The zero value is ready to use.
// A Dict is not safe for concurrent mutation.
type Dict struct {
	entries []Entry
	counts  map[string]int
}

// New creates a Dict from alternating key, value arguments.
// A trailing key without a value is stored with a nil value.
func New(pairs ...any) *Dict {
	d := &Dict{}
	for i := 0; i < len(pairs); i += 2 {
		key := toKey(pairs[i])
		var val any
		if i+1 < len(pairs) {
			val = pairs[i+1]
		}
		d.Add(key, val)
	}
	return d
}

// Add appends an entry, keeping any earlier entries with the same key.
func (d *Dict) Add(key string, value any) *Dict {
	if d.counts == nil {
		d.counts = make(map[string]int)
	}
	d.counts[key]++
	d.entries = append(d.entries, Entry{
		Key:   key,
		Value: value,
		Pos:   d.counts[key],
		Index: len(d.entries),
	})
	return d
}

// Set replaces the value addressed by name ("key" or "key$N"), or appends
// a new entry when nothing is addressed.
func (d *Dict) Set(name string, value any) *Dict {
	if i := d.find(name); i >= 0 {
		d.entries[i].Value = value
		return d
	}
	key, _, _ := splitName(name)
	return d.Add(key, value)
}

// Get returns the value addressed by name ("key" or "key$N").
func (d *Dict) Get(name string) (any, bool) {
	if i := d.find(name); i >= 0 {
		return d.entries[i].Value, true
	}
	return nil, false
}

// Has reports whether name addresses an entry.
func (d *Dict) Has(name string) bool {
	return d.find(name) >= 0
}

// Delete removes the entry addressed by name and renumbers the rest.
func (d *Dict) Delete(name string) bool {
	i := d.find(name)
	if i < 0 {
		return false
	}
	rest := append(d.entries[:i:i], d.entries[i+1:]...)
	d.entries = nil
	d.counts = nil
	for _, e := range rest {
		d.Add(e.Key, e.Value)
	}
	return true
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Count returns how many entries share key.
func (d *Dict) Count(key string) int {
	if d == nil {
		return 0
	}
	return d.counts[key]
}

// Keys returns the keys in order, duplicates included.
func (d *Dict) Keys() []string {
	out := make([]string, 0, d.Len())
	for e := range d.All() {
		out = append(out, e.Key)
	}
	return out
}

// Values returns the values in order.
func (d *Dict) Values() []any {
	out := make([]any, 0, d.Len())
	for e := range d.All() {
		out = append(out, e.Value)
	}
	return out
}

// Entries returns a copy of the entries in order.
func (d *Dict) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// All iterates the entries in insertion order.
func (d *Dict) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if d == nil {
			return
		}
		for _, e := range d.entries {
			if !yield(e) {
				return
			}
		}
	}
}

func (d *Dict) find(name string) int {
	if d == nil {
		return -1
	}
	key, pos, ok := splitName(name)
	if !ok {
		return -1
	}
	for i, e := range d.entries {
		if e.Key == key && e.Pos == pos {
			return i
		}
	}
	return -1
}

// splitName parses "key" or "key$N". "key$" and "key$0" address nothing.
func splitName(name string) (key string, pos int, ok bool) {
	i := strings.LastIndexByte(name, '$')
	if i < 0 {
		return name, 1, true
	}
	digits := name[i+1:]
	if digits == "" {
		return name[:i], 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// a '$' that is not followed by a position belongs to the key
		return name, 1, true
	}
	if n < 1 {
		return name[:i], 0, false
	}
	return name[:i], n, true
}
