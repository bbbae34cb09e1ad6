package format

import (
	"context"

	"github.com/randalmurphal/fillkit/pkg/fillkit/dict"
)

// call is the state shared by every evaluation of one top-level call.
type call struct {
	ctx        context.Context
	id         string
	directives int
}

// iteration places an evaluation inside a List or KeyedMap: the element's
// index, the element count and the natural widths of the elements.
type iteration struct {
	index  int
	length int
	widths map[string]int
}

var noIteration = iteration{length: 1}

// formatContext is one template evaluation: its buckets and cursors, its
// depth and its place in an enclosing iteration. Nested templates get a
// new formatContext built from their own arguments.
type formatContext struct {
	call  *call
	depth int
	iter  iteration

	buckets Buckets
	scalar  int
	list    int
	object  int
}

func newFormatContext(c *call, depth int, args []any, iter iteration) *formatContext {
	return &formatContext{
		call:    c,
		depth:   depth,
		iter:    iter,
		buckets: Classify(args),
	}
}

func (fc *formatContext) ctx() context.Context {
	return fc.call.ctx
}

func (fc *formatContext) nextScalar() (any, bool) {
	if fc.scalar >= len(fc.buckets.Scalars) {
		return nil, false
	}
	v := fc.buckets.Scalars[fc.scalar]
	fc.scalar++
	return v, true
}

func (fc *formatContext) nextList() (any, bool) {
	if fc.list >= len(fc.buckets.Lists) {
		return nil, false
	}
	v := fc.buckets.Lists[fc.list]
	fc.list++
	return v, true
}

func (fc *formatContext) nextObject() (any, bool) {
	if fc.object >= len(fc.buckets.Objects) {
		return nil, false
	}
	v := fc.buckets.Objects[fc.object]
	fc.object++
	return v, true
}

// lookup resolves a Named key against the trailing associative argument.
func (fc *formatContext) lookup(key string) (any, bool) {
	if fc.buckets.Lookup == nil {
		return nil, false
	}
	return dict.Lookup(fc.buckets.Lookup, key)
}

// width resolves a pad spec's width. A natural (#) width takes the
// enclosing iteration's widest element under key, or its default.
func (fc *formatContext) width(p PadSpec, key string) int {
	if !p.Natural {
		return p.Width
	}
	if w, ok := fc.iter.widths[key]; ok && key != "" {
		return w
	}
	return fc.iter.widths[""]
}

// padAllowed checks every clamp against the element's place in the
// enclosing iteration.
func (fc *formatContext) padAllowed(clamps ...[]Clamp) bool {
	for _, cs := range clamps {
		for _, c := range cs {
			if !c.Allows(fc.iter.index, fc.iter.length) {
				return false
			}
		}
	}
	return true
}
