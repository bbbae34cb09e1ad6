package format

import (
	"strings"

	"github.com/randalmurphal/fillkit/pkg/fillkit/decor"
	"github.com/randalmurphal/fillkit/pkg/fillkit/dict"
	"github.com/randalmurphal/fillkit/pkg/fillkit/value"
)

// renderScalar fills a Scalar directive from the scalar bucket. An
// exhausted bucket leaves the directive text in place (or nothing, when
// strict).
func (f *Formatter) renderScalar(fc *formatContext, d *Directive) (string, any, error) {
	v, ok := fc.nextScalar()

	var s string
	switch {
	case !ok:
		v = d.Text
		if !d.Strict {
			s = d.Text
		}
	case !Accepts(d.Type.Tag, v):
		if !d.Strict {
			s = value.String(v)
		}
	default:
		s = coerce(d.Type, v)
	}

	out, err := f.finalize(fc, d, s, "", nil)
	return out, v, err
}

// renderList formats the inner template once per element of the next list
// argument and joins the results.
func (f *Formatter) renderList(fc *formatContext, d *Directive) (string, any, error) {
	v, _ := fc.nextList()
	items, _ := value.Items(v)
	if d.Strict {
		kept := items[:0:0]
		for _, it := range items {
			if value.IsTruthy(it) {
				kept = append(kept, it)
			}
		}
		items = kept
	}

	widest := 0
	for _, it := range items {
		widest = max(widest, decor.VisibleLen(value.String(it)))
	}
	widths := map[string]int{"": widest}

	segments := make([]string, 0, len(items))
	for i, it := range items {
		s, err := f.nested(fc, d.Inner, []any{it}, iteration{index: i, length: len(items), widths: widths})
		if err != nil {
			return "", v, err
		}
		segments = append(segments, s)
	}

	joined := f.grammar.Delimit(segments, d.Options.Delim, d.Options.LastDelim)
	out, err := f.finalize(fc, d, joined, "", nil)
	return out, items, err
}

// renderKeyedMap formats the inner template once per entry of the next
// associative argument, against a {k, v} record, and joins the results.
func (f *Formatter) renderKeyedMap(fc *formatContext, d *Directive) (string, any, error) {
	v, _ := fc.nextObject()
	entries, _ := dict.Entries(v)
	if d.Strict {
		kept := entries[:0:0]
		for _, e := range entries {
			if !value.IsBlank(e.Key) && value.IsTruthy(e.Value) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	keyWidth, valWidth := 0, 0
	for _, e := range entries {
		keyWidth = max(keyWidth, decor.VisibleLen(e.Key))
		valWidth = max(valWidth, decor.VisibleLen(value.String(e.Value)))
	}
	widths := map[string]int{
		"":      valWidth,
		"k":     keyWidth,
		"key":   keyWidth,
		"v":     valWidth,
		"value": valWidth,
	}

	segments := make([]string, 0, len(entries))
	for i, e := range entries {
		rec := record{key: e.Key, value: e.Value}
		s, err := f.nested(fc, d.Inner, []any{rec}, iteration{index: i, length: len(entries), widths: widths})
		if err != nil {
			return "", v, err
		}
		segments = append(segments, s)
	}

	joined := f.grammar.Delimit(segments, d.Options.Delim, d.Options.LastDelim)
	out, err := f.finalize(fc, d, joined, "", nil)
	return out, v, err
}

// renderNamed looks each key up in the trailing associative argument and
// renders present values through the nest templates (or %type). Keys that
// are missing are skipped; empty values, and a directive none of whose
// keys exist, render as the directive text, or nothing when strict.
func (f *Formatter) renderNamed(fc *formatContext, d *Directive) (string, any, error) {
	inner := f.nestTemplate(d)

	var (
		b     strings.Builder
		found bool
		vals  []any
	)
	for _, key := range d.Keys {
		v, ok := fc.lookup(key)
		if !ok {
			continue
		}
		found = true
		vals = append(vals, v)
		if value.IsEmpty(v) {
			if !d.Strict {
				b.WriteString(d.Text)
			}
			continue
		}

		s, err := f.nested(fc, inner, []any{v}, noIteration)
		if err != nil {
			return "", vals, err
		}
		k := key
		s, err = f.finalize(fc, d, s, key, &k)
		if err != nil {
			return "", vals, err
		}
		b.WriteString(s)
	}

	if !found && !d.Strict {
		return d.Text, nil, nil
	}
	if len(vals) == 1 {
		return b.String(), vals[0], nil
	}
	return b.String(), vals, nil
}

// nestTemplate concatenates the directive's nest templates. Unknown names
// add nothing; with none left the value renders through %type.
func (f *Formatter) nestTemplate(d *Directive) string {
	var b strings.Builder
	for _, n := range d.Nests {
		b.WriteString(f.nests[n])
	}
	if b.Len() == 0 {
		return "%" + d.Type.text()
	}
	return b.String()
}

// finalize runs the post-processing pipeline: pad, case, color,
// search/replace, then prefix and suffix. Prefix and suffix are templates
// formatted against affixArg (the key, for Named) or the processed value.
// A strict directive with nothing to show drops everything.
func (f *Formatter) finalize(fc *formatContext, d *Directive, text, widthKey string, affixArg *string) (string, error) {
	if d.Strict && text == "" {
		return "", nil
	}

	if d.Pad.Enabled() && fc.padAllowed(d.Pad.Clamps, d.Options.Clamps) {
		text = Pad(text, d.Pad.Char, fc.width(d.Pad, widthKey), d.Pad.Dir)
	}
	text = decor.Case(text, d.Options.Case)
	text = d.Options.Color.Apply(text)
	text = f.replace(fc, text, d.Options.Replace)

	arg := text
	if affixArg != nil {
		arg = *affixArg
	}
	prefix, err := f.affix(fc, d.Options.Prefix, arg)
	if err != nil {
		return "", err
	}
	suffix, err := f.affix(fc, d.Options.Suffix, arg)
	if err != nil {
		return "", err
	}
	return prefix + text + suffix, nil
}

func (f *Formatter) affix(fc *formatContext, template, arg string) (string, error) {
	if template == "" {
		return "", nil
	}
	return f.nested(fc, template, []any{arg}, noIteration)
}

// replace applies a pattern/replacement spec, split on the last '/', to
// every match in text. The pattern goes through the Formatter's compiler;
// a spec that does not parse or compile leaves text unchanged.
//
// A lookbehind in the pattern is emulated by consuming the text before the
// match, so that text is replaced too: /(?<=a)b/X turns "abab" into "XX".
func (f *Formatter) replace(fc *formatContext, text, spec string) string {
	if spec == "" {
		return text
	}
	i := strings.LastIndex(spec, "/")
	if i <= 0 {
		return text
	}
	p, err := f.compiler.CachedContext(fc.ctx(), spec[:i])
	if err != nil {
		return text
	}
	out, err := p.ReplaceAll(text, spec[i+1:])
	if err != nil {
		return text
	}
	return out
}
