package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/randalmurphal/fillkit/pkg/fillkit/cache"
)

// Vars is the nested fragment table a Compiler resolves {{name}} tokens
// against. Values are strings, nested maps (Vars, map[string]any or
// map[string]string) or scalars, which are stringified. A nested map's ""
// entry is its default value.
type Vars map[string]any

// tokenRe matches {{name}}, {{name.sub...}} and {{name+sub...}}.
var tokenRe = mustRe(`\{\{([^{\[(|.+)\]}]+?)((?:\.[^{\[(|.+)\]}]+?)*|(?:\+[^{\[(|.+)\]}]+?)*)\}\}`)

type node struct {
	leaf   string
	isLeaf bool
	kids   map[string]*node
}

// Store is a resolved Vars table. Every leaf is expanded once at
// construction; a Store is read-only afterwards and safe for concurrent
// use.
type Store struct {
	root        *node
	resolved    map[string]string
	visiting    map[string]bool
	fingerprint string
}

// NewStore builds and resolves a Store. It never fails: malformed entries
// are stringified and unresolvable references stay literal.
func NewStore(vars Vars) *Store {
	s := &Store{
		root:     buildNode(map[string]any(vars)),
		resolved: make(map[string]string),
		visiting: make(map[string]bool),
	}
	for _, path := range s.leafPaths(s.root, nil) {
		s.resolveLeaf(path)
	}
	s.visiting = nil
	s.fingerprint = s.computeFingerprint()
	return s
}

func buildNode(m map[string]any) *node {
	n := &node{kids: make(map[string]*node, len(m))}
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			continue
		case Vars:
			n.kids[k] = buildNode(map[string]any(t))
		case map[string]any:
			n.kids[k] = buildNode(t)
		case map[string]string:
			sub := make(map[string]any, len(t))
			for sk, sv := range t {
				sub[sk] = sv
			}
			n.kids[k] = buildNode(sub)
		case string:
			n.kids[k] = &node{leaf: t, isLeaf: true}
		default:
			n.kids[k] = &node{leaf: fmt.Sprint(t), isLeaf: true}
		}
	}
	return n
}

// leafPaths lists every leaf path in sorted order, so resolution order
// (and therefore cycle handling) is deterministic.
func (s *Store) leafPaths(n *node, prefix []string) [][]string {
	keys := make([]string, 0, len(n.kids))
	for k := range n.kids {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out [][]string
	for _, k := range keys {
		path := append(append([]string(nil), prefix...), k)
		if kid := n.kids[k]; kid.isLeaf {
			out = append(out, path)
		} else {
			out = append(out, s.leafPaths(kid, path)...)
		}
	}
	return out
}

func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}

func (s *Store) node(path []string) *node {
	n := s.root
	for _, seg := range path {
		kid, ok := n.kids[seg]
		if !ok {
			return nil
		}
		n = kid
	}
	return n
}

// resolveLeaf returns the expanded value of the leaf at path. A leaf that
// is already being expanded further up the stack reports false, which
// leaves the referencing token literal.
func (s *Store) resolveLeaf(path []string) (string, bool) {
	key := pathKey(path)
	if v, ok := s.resolved[key]; ok {
		return v, true
	}
	if s.visiting == nil || s.visiting[key] {
		return "", false
	}
	n := s.node(path)
	if n == nil || !n.isLeaf {
		return "", false
	}

	s.visiting[key] = true
	out, _ := s.substitute(n.leaf)
	delete(s.visiting, key)

	s.resolved[key] = out
	return out, true
}

// value resolves the target of a leaf or nested store: the leaf itself, or
// the nested store's "" entry.
func (s *Store) value(path []string) (string, bool) {
	n := s.node(path)
	if n == nil {
		return "", false
	}
	if n.isLeaf {
		return s.resolveLeaf(path)
	}
	if def, ok := n.kids[""]; ok && def.isLeaf {
		return s.resolveLeaf(append(append([]string(nil), path...), ""))
	}
	return "", false
}

// lookupToken resolves one token's name and chain.
func (s *Store) lookupToken(name, chain string) (string, bool) {
	switch {
	case chain == "":
		return s.value([]string{name})

	case chain[0] == '.':
		path := append([]string{name}, strings.Split(chain[1:], ".")...)
		return s.value(path)

	default:
		base := s.node([]string{name})
		if base == nil || base.isLeaf {
			return "", false
		}
		var b strings.Builder
		if def, ok := base.kids[""]; ok && def.isLeaf {
			v, ok := s.resolveLeaf([]string{name, ""})
			if !ok {
				return "", false
			}
			b.WriteString(v)
		}
		for _, sib := range strings.Split(chain[1:], "+") {
			v, ok := s.value([]string{name, sib})
			if !ok {
				return "", false
			}
			b.WriteString(v)
		}
		return b.String(), true
	}
}

// substitute replaces every resolvable token in text with its rewritten
// value and returns the tokens it could not resolve.
func (s *Store) substitute(text string) (string, []string) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	var missing []string
	out := replaceFunc(tokenRe, text, func(m *regexp2.Match) string {
		name, _ := group(m, 1)
		chain, _ := group(m, 2)
		v, ok := s.lookupToken(name, chain)
		if !ok {
			missing = append(missing, name+chain)
			return m.String()
		}
		return Rewrite(v)
	})
	return out, missing
}

// Lookup returns the resolved value at a dotted path. A path ending on a
// nested store yields that store's "" entry.
func (s *Store) Lookup(path string) (string, bool) {
	if s == nil {
		return "", false
	}
	return s.value(strings.Split(path, "."))
}

// Resolve substitutes every resolvable {{...}} token in text. Each
// substituted value passes through the rewrite pipeline first. Unresolved
// tokens are left in place and returned by name.
func (s *Store) Resolve(text string) (string, []string) {
	if s == nil {
		s = emptyStore
	}
	return s.substitute(text)
}

// Fingerprint identifies the store's resolved contents.
func (s *Store) Fingerprint() string {
	if s == nil {
		return emptyStore.fingerprint
	}
	return s.fingerprint
}

func (s *Store) computeFingerprint() string {
	keys := make([]string, 0, len(s.resolved))
	for k := range s.resolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\x1f')
		b.WriteString(s.resolved[k])
		b.WriteByte('\x1e')
	}
	return cache.Key("vars", b.String())
}

var emptyStore = NewStore(nil)
