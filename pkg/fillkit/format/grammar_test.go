package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fillkit/pkg/fillkit/decor"
)

func TestGrammar_Locator(t *testing.T) {
	var got []string
	for _, m := range Grammar().Locator.FindAll("a %s b %[%s|;/,]s c %% d %(x)5s e %{%(k)s}-s") {
		got = append(got, m.Text())
	}
	// the unterminated keyed map is skipped; its inner directive is not
	assert.Equal(t, []string{"%s", "%[%s|;/,]s", "%%", "%(x)5s", "%(k)s"}, got)
}

func TestGrammar_Parse(t *testing.T) {
	plain := TypeSpec{Tag: 's', Text: "s"}

	tests := []struct {
		text string
		want Directive
	}{
		{
			text: "%!0+8-.2f",
			want: Directive{
				Shape:  ShapeScalar,
				Strict: true,
				Pad:    PadSpec{Char: "0", Width: 8, Dir: PadEnd},
				Type:   TypeSpec{Tag: 'f', Decimals: 2, Text: ".2f"},
			},
		},
		{
			text: "%[%s|;/, |&/ and ]s",
			want: Directive{
				Shape:   ShapeList,
				Inner:   "%s",
				Options: OptionSet{Delim: ", ", LastDelim: " and "},
				Pad:     PadSpec{Char: " "},
				Type:    plain,
			},
		},
		{
			text: "%(v<<A,B>>|@C/red|@b/blue)#s",
			want: Directive{
				Shape:   ShapeNamed,
				Keys:    []string{"v"},
				Nests:   []string{"A", "B"},
				Options: OptionSet{Color: decor.Spec{Color: "red", Background: "blue"}},
				Pad:     PadSpec{Char: " ", Natural: true},
				Type:    plain,
			},
		},
		{
			text: "%([first, last])s",
			want: Directive{
				Shape: ShapeNamed,
				Keys:  []string{"first", "last"},
				Pad:   PadSpec{Char: " "},
				Type:  plain,
			},
		},
		{
			text: "%{%(k)s}3{#>0,#<-1}s",
			want: Directive{
				Shape: ShapeKeyedMap,
				Inner: "%(k)s",
				Pad: PadSpec{Char: " ", Width: 3, Clamps: []Clamp{
					{Current: true, Op: '>', Threshold: "0"},
					{Current: true, Op: '<', Threshold: "-1"},
				}},
				Type: plain,
			},
		},
		{
			text: "%.<%Y>d",
			want: Directive{
				Shape: ShapeScalar,
				Pad:   PadSpec{Char: " "},
				Type:  TypeSpec{Tag: 'd', Layout: "%Y", Text: ".<%Y>d"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, ok := Grammar().Parse(tt.text)
			require.True(t, ok)
			tt.want.Text = tt.text
			assert.Equal(t, tt.want, *d)
		})
	}
}

func TestGrammar_ParseRejects(t *testing.T) {
	for _, text := range []string{"%%", "hello", "%q", "%(a(b))s"} {
		_, ok := Grammar().Parse(text)
		assert.False(t, ok, text)
	}
}

func TestGrammar_ParseIsCached(t *testing.T) {
	a, ok := Grammar().Parse("%[%s|;/,]s")
	require.True(t, ok)
	b, _ := Grammar().Parse("%[%s|;/,]s")
	assert.Same(t, a, b)
}

func TestGrammar_ParseOptions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want OptionSet
	}{
		{"none", "", OptionSet{}},
		{
			"every text option",
			"|-/a|+/b|;/c|&/d|^/U|=/x/y",
			OptionSet{Prefix: "a", Suffix: "b", Delim: "c", LastDelim: "d", Case: "U", Replace: "x/y"},
		},
		{"font and style", "|@F/bold|@s/underline", OptionSet{Color: decor.Spec{Font: "bold", Style: "underline"}}},
		{
			"clamps accumulate and bad thresholds drop",
			"|#>/1|#</-1|#>/x|#>/--1",
			OptionSet{Clamps: []Clamp{
				{Current: true, Op: '>', Threshold: "1"},
				{Current: true, Op: '<', Threshold: "-1"},
			}},
		},
		{"doubled pipe", "|;/a||b", OptionSet{Delim: "a|b"}},
		{"doubled bracket", "|-/[[x", OptionSet{Prefix: "[x"}},
		{"balanced group", "|+/ (%s)", OptionSet{Suffix: " (%s)"}},
		{"later wins", "|;/a|;/b", OptionSet{Delim: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grammar().ParseOptions(tt.text))
		})
	}
}

func TestGrammar_UnescapeValue(t *testing.T) {
	tests := map[string]string{
		"plain":    "plain",
		"a||b":     "a|b",
		"[[":       "[",
		"x))":      "x)",
		"(a)":      "(a)",
		"((x))":    "((x))",
		"{{Var}}":  "{{Var}}",
		"{{a}} ||": "{{a}} |",
	}
	for in, want := range tests {
		assert.Equal(t, want, Grammar().UnescapeValue(in), in)
	}
}

func TestGrammar_ParsePad(t *testing.T) {
	tests := []struct {
		text string
		want PadSpec
	}{
		{"", PadSpec{Char: " "}},
		{"5", PadSpec{Char: " ", Width: 5}},
		{"#-", PadSpec{Char: " ", Natural: true, Dir: PadEnd}},
		{"0+3+", PadSpec{Char: "0", Width: 3, Dir: PadCenter}},
		{"++4", PadSpec{Char: "+", Width: 4}},
		{"+4", PadSpec{Char: " ", Width: 4}},
		{"3{#>}", PadSpec{Char: " ", Width: 3, Clamps: []Clamp{{Current: true, Op: '>'}}}},
		{"abc", PadSpec{Char: " "}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Grammar().ParsePad(tt.text))
		})
	}
}

func TestGrammar_ParseClamp(t *testing.T) {
	assert.Equal(t, []Clamp{{Subject: 2, Op: '<', Threshold: "+1"}}, Grammar().ParseClamp("{2<+1}"))
	assert.Equal(t, []Clamp{
		{Current: true, Op: '>', Threshold: "0"},
		{Current: true, Op: '<'},
	}, Grammar().ParseClamp("{#>0,#<}"))
	assert.Nil(t, Grammar().ParseClamp("{#=1}"))
}

func TestClamp_Allows(t *testing.T) {
	tests := []struct {
		name          string
		clamp         Clamp
		index, length int
		want          bool
	}{
		{"after first, first", Clamp{Current: true, Op: '>'}, 0, 3, false},
		{"after first, second", Clamp{Current: true, Op: '>'}, 1, 3, true},
		{"before last, last", Clamp{Current: true, Op: '<'}, 2, 3, false},
		{"before last, middle", Clamp{Current: true, Op: '<'}, 1, 3, true},
		{"relative, inside", Clamp{Current: true, Op: '<', Threshold: "-1"}, 1, 3, true},
		{"relative, outside", Clamp{Current: true, Op: '<', Threshold: "-1"}, 2, 3, false},
		{"absolute", Clamp{Current: true, Op: '>', Threshold: "1"}, 1, 3, false},
		{"absolute, past", Clamp{Current: true, Op: '>', Threshold: "1"}, 2, 3, true},
		{"literal subject", Clamp{Subject: 5, Op: '>', Threshold: "3"}, 0, 1, true},
		{"unreadable threshold allows", Clamp{Current: true, Op: '>', Threshold: "-"}, 0, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.clamp.Allows(tt.index, tt.length))
		})
	}
}

func TestGrammar_ParseType(t *testing.T) {
	tests := []struct {
		text string
		want TypeSpec
	}{
		{"", TypeSpec{Tag: 's', Text: "s"}},
		{"i", TypeSpec{Tag: 'i', Text: "i"}},
		{".3f", TypeSpec{Tag: 'f', Decimals: 3, Text: ".3f"}},
		{".<%d/%m>d", TypeSpec{Tag: 'd', Layout: "%d/%m", Text: ".<%d/%m>d"}},
		{"x", TypeSpec{Tag: 's', Text: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Grammar().ParseType(tt.text))
		})
	}
}

func TestGrammar_Delimit(t *testing.T) {
	tests := []struct {
		name        string
		segments    []string
		delim, last string
		want        string
	}{
		{"none", nil, ",", "", ""},
		{"one", []string{"a"}, ",", "and", "a"},
		{"two use last", []string{"a", "b"}, ", ", " and ", "a and b"},
		{"last falls back to delim", []string{"a", "b", "c"}, ",", "", "a,b,c"},
		{"whitespace moves past the delimiter", []string{"a ", "b"}, ",", "", "a, b"},
		{"no delimiter keeps whitespace", []string{"a ", "b"}, "", "", "a b"},
		{"tabs too", []string{"a\t\t", "b  "}, "|", "", "a|\t\tb  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grammar().Delimit(tt.segments, tt.delim, tt.last))
		})
	}
}

func TestShape(t *testing.T) {
	assert.Equal(t, "keyed_map", ShapeKeyedMap.String())
	assert.Equal(t, "Shape(9)", Shape(9).String())
	assert.Equal(t, byte('K'), ShapeNamed.Letter())
	assert.Equal(t, byte('?'), Shape(9).Letter())

	assert.Equal(t,
		[]Shape{ShapeScalar, ShapeList, ShapeKeyedMap, ShapeNamed},
		ParseShapes("n", "L", "x", "o ", "K"))
	assert.Empty(t, ParseShapes())
	assert.Len(t, AllShapes(), 4)
}
