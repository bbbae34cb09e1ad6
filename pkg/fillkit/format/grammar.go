package format

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/randalmurphal/fillkit/pkg/fillkit/cache"
	"github.com/randalmurphal/fillkit/pkg/fillkit/pattern"
)

// grammarVars are the fragments the directive grammar is written in. Literal
// '<' is escaped wherever it could be read as a wrap macro.
var grammarVars = pattern.Vars{
	// a bracketed group, balanced up to four levels; other brackets inside
	// must be doubled
	"Nest": `</[\[{(](?:<|[]{}()|>|/%/4)*[\]})]/>`,
	"Body": `(?:<|[]{}()|>|{{Nest}})*`,
	"Opt": pattern.Vars{
		"":     `\|{{Opt.Mod}}/{{Opt.Val}}`,
		"Mod":  `(?:[\-+;&^=]|@[CBSFcbsf]|#[<>])`,
		"Val":  `(?:{{Nest}}|<||[]{}()|>)*`,
		"List": `(?:{{Opt}})*`,
	},
	"Pad": pattern.Vars{
		"":      `(?:(?:.?\+)?(?:\d+|#)[\-+]?(?:{{Pad.Clamp}})?)?`,
		"Clamp": `\{(?:\d+|#)[<>][\-+]?\d*(?:,(?:\d+|#)[<>][\-+]?\d*)?\}`,
	},
	"Type": pattern.Vars{
		"":    `(?:\.(?:\d+(?=f)|\<[^<>]+?\>(?=d)))?{{Type.Tag}}`,
		"Tag": `[sdifbaor]`,
	},
	"Key": `\[[^\[\]{}()|]+\]|(?:(?!\<\<)[^\[\]{}()|])+`,
}

// Grammar sources, written against grammarVars.
const (
	locatorSource = `%%|%!?(?:\[{{Body}}\]|[{]{{Body}}[}]|\({{Body}}\)|(?:{{Opt.List}}\|)?){{Pad}}{{Type}}`

	pairSource   = `^%(?<strict>!?)[{](?<inner>.*?)(?<opts>{{Opt.List}})[}](?<pad>{{Pad}})(?<type>{{Type}})$`
	listSource   = `^%(?<strict>!?)\[(?<inner>.*?)(?<opts>{{Opt.List}})\](?<pad>{{Pad}})(?<type>{{Type}})$`
	namedSource  = `^%(?<strict>!?)\((?<key>{{Key}})(?:\<\<(?<nest>[\w,]+)\>\>)?(?<opts>{{Opt.List}})\)(?<pad>{{Pad}})(?<type>{{Type}})$`
	scalarSource = `^%(?<strict>!?)(?:(?<opts>{{Opt.List}})\|)?(?<pad>{{Pad}})(?<type>{{Type}})$`

	optionSource   = `\|(?<mod>{{Opt.Mod}})/(?<val>{{Opt.Val}})`
	unescapeSource = `(?<nest>{{Nest}})|(?<dbl>[|\[\]{}()])\k<dbl>`
	padSource      = `^(?:(?<char>.?)\+)?(?<width>\d+|#)(?<dir>[\-+]?)(?<clamp>{{Pad.Clamp}})?$`
	clampSource    = `^\{(?<s1>\d+|#)(?<op1>[<>])(?<m1>[\-+]?\d*)(?:,(?<s2>\d+|#)(?<op2>[<>])(?<m2>[\-+]?\d*))?\}$`
	typeSource     = `^(?:\.(?:(?<dec>\d+)(?=f)|\<(?<date>[^<>]+?)\>(?=d)))?(?<tag>{{Type.Tag}})$`
	trailingSource = `(?<ws>\s+)\z`
)

// GrammarTables is the directive grammar, compiled once through a
// pattern.Compiler and shared read-only by every Formatter.
type GrammarTables struct {
	// Locator finds %% and the four directive shapes, outside-in.
	Locator *pattern.Compiled

	Pair   *pattern.Compiled
	List   *pattern.Compiled
	Named  *pattern.Compiled
	Scalar *pattern.Compiled

	Option   *pattern.Compiled
	Unescape *pattern.Compiled
	Pad      *pattern.Compiled
	Clamp    *pattern.Compiled
	Type     *pattern.Compiled
	Trailing *pattern.Compiled

	directives *cache.Registry[string, *Directive]
}

var (
	grammarOnce sync.Once
	grammar     *GrammarTables
)

// Grammar returns the shared grammar tables, building them on first use.
func Grammar() *GrammarTables {
	grammarOnce.Do(func() {
		grammar = buildGrammar(pattern.NewCompiler(grammarVars))
	})
	return grammar
}

func buildGrammar(c *pattern.Compiler) *GrammarTables {
	return &GrammarTables{
		Locator:    c.MustCompile(locatorSource),
		Pair:       c.MustCompile(pairSource),
		List:       c.MustCompile(listSource),
		Named:      c.MustCompile(namedSource),
		Scalar:     c.MustCompile(scalarSource),
		Option:     c.MustCompile(optionSource),
		Unescape:   c.MustCompile(unescapeSource),
		Pad:        c.MustCompile(padSource),
		Clamp:      c.MustCompile(clampSource),
		Type:       c.MustCompile(typeSource),
		Trailing:   c.MustCompile(trailingSource),
		directives: cache.NewRegistry[string, *Directive](),
	}
}

// Parse reads a directive as matched by Locator. It returns false for %%
// and for text no shape accepts. Results are cached by text.
func (g *GrammarTables) Parse(text string) (*Directive, bool) {
	d := g.directives.GetOrCreate(text, func() *Directive {
		return g.parse(text)
	})
	return d, d != nil
}

func (g *GrammarTables) parse(text string) *Directive {
	shapes := []struct {
		shape Shape
		re    *pattern.Compiled
	}{
		{ShapeKeyedMap, g.Pair},
		{ShapeList, g.List},
		{ShapeNamed, g.Named},
		{ShapeScalar, g.Scalar},
	}
	for _, s := range shapes {
		m, ok := s.re.FindString(text)
		if !ok {
			continue
		}
		d := &Directive{
			Shape:   s.shape,
			Text:    text,
			Strict:  m.Named("strict") == "!",
			Inner:   m.Named("inner"),
			Options: g.ParseOptions(m.Named("opts")),
			Pad:     g.ParsePad(m.Named("pad")),
			Type:    g.ParseType(m.Named("type")),
		}
		if s.shape == ShapeNamed {
			d.Keys = splitKeys(m.Named("key"))
			d.Nests = splitList(m.Named("nest"))
		}
		return d
	}
	return nil
}

// ParseOptions reads a run of |mod/value options. Later options override
// earlier ones, except clamps, which accumulate.
func (g *GrammarTables) ParseOptions(text string) OptionSet {
	var o OptionSet
	if text == "" {
		return o
	}
	for _, m := range g.Option.FindAll(text) {
		mod := m.Named("mod")
		val := g.UnescapeValue(m.Named("val"))
		switch mod[0] {
		case '-':
			o.Prefix = val
		case '+':
			o.Suffix = val
		case ';':
			o.Delim = val
		case '&':
			o.LastDelim = val
		case '^':
			o.Case = val
		case '=':
			o.Replace = val
		case '@':
			switch unicode.ToUpper(rune(mod[1])) {
			case 'F':
				o.Color.Font = val
			case 'C':
				o.Color.Color = val
			case 'B':
				o.Color.Background = val
			case 'S':
				o.Color.Style = val
			}
		case '#':
			if isThreshold(val) {
				o.Clamps = append(o.Clamps, Clamp{Current: true, Op: mod[1], Threshold: val})
			}
		}
	}
	return o
}

// UnescapeValue collapses doubled brackets and pipes in an option value.
// Balanced groups are kept as written.
func (g *GrammarTables) UnescapeValue(val string) string {
	if !strings.ContainsAny(val, "|[]{}()") {
		return val
	}
	out, err := g.Unescape.ReplaceFunc(val, func(m pattern.Match) string {
		if m.Has("nest") {
			return m.Text()
		}
		return m.Named("dbl")
	})
	if err != nil {
		return val
	}
	return out
}

// ParsePad reads a pad spec. Empty or malformed text means no padding.
func (g *GrammarTables) ParsePad(text string) PadSpec {
	p := PadSpec{Char: " "}
	if text == "" {
		return p
	}
	m, ok := g.Pad.FindString(text)
	if !ok {
		return p
	}
	if c := m.Named("char"); c != "" {
		p.Char = c
	}
	if w := m.Named("width"); w == "#" {
		p.Natural = true
	} else {
		p.Width, _ = strconv.Atoi(w)
	}
	switch m.Named("dir") {
	case "-":
		p.Dir = PadEnd
	case "+":
		p.Dir = PadCenter
	}
	if clamp := m.Named("clamp"); clamp != "" {
		p.Clamps = g.ParseClamp(clamp)
	}
	return p
}

// ParseClamp reads {N>M}, {N<M} or a comma-joined pair of them.
func (g *GrammarTables) ParseClamp(text string) []Clamp {
	m, ok := g.Clamp.FindString(text)
	if !ok {
		return nil
	}
	out := []Clamp{newClamp(m.Named("s1"), m.Named("op1"), m.Named("m1"))}
	if m.Has("s2") {
		out = append(out, newClamp(m.Named("s2"), m.Named("op2"), m.Named("m2")))
	}
	return out
}

func newClamp(subject, op, threshold string) Clamp {
	c := Clamp{Op: op[0], Threshold: threshold}
	if subject == "#" {
		c.Current = true
	} else {
		c.Subject, _ = strconv.Atoi(subject)
	}
	return c
}

// ParseType reads a type spec. Unparseable text reads as plain text (s).
func (g *GrammarTables) ParseType(text string) TypeSpec {
	m, ok := g.Type.FindString(text)
	if !ok {
		return TypeSpec{Tag: 's', Text: "s"}
	}
	t := TypeSpec{Tag: m.Named("tag")[0], Layout: m.Named("date"), Text: text}
	if dec := m.Named("dec"); dec != "" {
		t.Decimals, _ = strconv.Atoi(dec)
	}
	return t
}

// Delimit joins rendered segments: every segment but the last with delim,
// the last with last (or delim when last is empty). Whitespace ending a
// segment moves after the delimiter that follows it.
func (g *GrammarTables) Delimit(segments []string, delim, last string) string {
	if last == "" {
		last = delim
	}
	var b strings.Builder
	for i, seg := range segments {
		if i == len(segments)-1 {
			b.WriteString(seg)
			break
		}
		sep := delim
		if i == len(segments)-2 {
			sep = last
		}
		body, ws := seg, ""
		if sep != "" {
			if m, ok := g.Trailing.FindString(seg); ok {
				ws = m.Named("ws")
				body = seg[:len(seg)-len(ws)]
			}
		}
		b.WriteString(body)
		b.WriteString(sep)
		b.WriteString(ws)
	}
	return b.String()
}

// splitKeys reads a Named key: one name, or [a,b,...].
func splitKeys(key string) []string {
	if strings.HasPrefix(key, "[") && strings.HasSuffix(key, "]") {
		return splitList(key[1 : len(key)-1])
	}
	return []string{key}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isThreshold reports whether s is a clamp threshold: optional sign, then
// optional digits.
func isThreshold(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
