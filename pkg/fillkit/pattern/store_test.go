package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lookup(t *testing.T) {
	s := NewStore(Vars{
		"Sep":   map[string]any{"": ",", "Semi": ";"},
		"Word":  `\w+`,
		"List":  "{{Word}}(?:{{Sep}}{{Word}})*",
		"Count": 3,
		"Deep":  Vars{"A": map[string]string{"B": "deep"}},
		"Nil":   nil,
	})

	tests := []struct {
		path  string
		want  string
		found bool
	}{
		{"Word", `\w+`, true},
		{"Sep", ",", true},
		{"Sep.Semi", ";", true},
		{"List", `\w+(?:,\w+)*`, true},
		{"Count", "3", true},
		{"Deep.A.B", "deep", true},
		{"Deep.A", "", false}, // no "" default
		{"Sep.Nope", "", false},
		{"Nil", "", false},
		{"Nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := s.Lookup(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_Resolve(t *testing.T) {
	s := NewStore(Vars{
		"Sep":  map[string]any{"": ",", "Semi": ";"},
		"Pair": map[string]any{"L": "(", "R": ")"},
		"Wrap": "<ab/^/cd>",
	})

	tests := []struct {
		name    string
		in      string
		want    string
		missing []string
	}{
		{"plain text", "abc", "abc", nil},
		{"leaf", "a{{Sep}}b", "a,b", nil},
		{"dotted", "a{{Sep.Semi}}b", "a;b", nil},
		{"plus chain with sentinel", "{{Sep+Semi}}", ",;", nil},
		{"plus chain without sentinel", "{{Pair+L+R}}", "()", nil},
		{"plus chain with missing sibling", "{{Pair+L+X}}", "{{Pair+L+X}}", []string{"Pair+L+X"}},
		{"unknown name", "x{{Nope}}y", "x{{Nope}}y", []string{"Nope"}},
		{"dotted on a leaf", "{{Wrap.X}}", "{{Wrap.X}}", []string{"Wrap.X"}},
		{"fragments are rewritten on insertion", "{{Wrap}}", "[ab][^abcd][cd]", nil},
		{"brackets are not names", "{{a[b}}", "{{a[b}}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := s.Resolve(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.missing, missing)
		})
	}

	raw, ok := s.Lookup("Wrap")
	require.True(t, ok)
	assert.Equal(t, "<ab/^/cd>", raw, "stored leaves keep their macros")
}

func TestStore_CyclesStayLiteral(t *testing.T) {
	s := NewStore(Vars{
		"A":    "{{B}}",
		"B":    "{{A}}",
		"Self": "x{{Self}}",
	})

	a, _ := s.Lookup("A")
	b, _ := s.Lookup("B")
	self, _ := s.Lookup("Self")
	assert.Equal(t, "{{A}}", a)
	assert.Equal(t, "{{A}}", b)
	assert.Equal(t, "x{{Self}}", self)
}

func TestStore_Fingerprint(t *testing.T) {
	a := NewStore(Vars{"X": "1"})
	b := NewStore(Vars{"X": "1"})
	c := NewStore(Vars{"X": "2"})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Equal(t, NewStore(nil).Fingerprint(), (*Store)(nil).Fingerprint())
}

func TestStore_Nil(t *testing.T) {
	var s *Store
	_, ok := s.Lookup("x")
	assert.False(t, ok)

	got, missing := s.Resolve("{{x}}")
	assert.Equal(t, "{{x}}", got)
	assert.Equal(t, []string{"x"}, missing)
}
