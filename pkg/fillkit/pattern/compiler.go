package pattern

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/randalmurphal/fillkit/pkg/fillkit/cache"
	"github.com/randalmurphal/fillkit/pkg/fillkit/observability"
)

// Compiler expands patterns against a variable store and compiles them
// with regexp2.
//
// Create with NewCompiler() and configure with Option functions.
// Compiler is safe for concurrent use after construction.
type Compiler struct {
	store         *Store
	missingAction MissingAction
	sources       cache.Store
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	matchTimeout  time.Duration
	compiled      *cache.Registry[string, *Compiled]
}

// NewCompiler creates a Compiler over vars. Construction never fails;
// a nil or malformed table behaves as an empty one for the parts it
// cannot use.
//
// Example:
//
//	c := NewCompiler(Vars{"Sep": ","})
//	p, _ := c.Compile("a{{Sep}}b/g")
//	p.Source() // "a,b"
func NewCompiler(vars Vars, opts ...Option) *Compiler {
	c := &Compiler{
		store:         NewStore(vars),
		missingAction: MissingKeep,
		metrics:       observability.NoopMetrics{},
		compiled:      cache.NewRegistry[string, *Compiled](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the resolved variable store.
func (c *Compiler) Store() *Store {
	return c.store
}

// Source expands text without building a native pattern. It returns the
// rewritten body and the trailing flag letters.
func (c *Compiler) Source(text string) (string, string) {
	src, flags, _ := c.expand(text)
	return src, flags
}

func (c *Compiler) expand(text string) (string, string, error) {
	resolved, missing := c.store.Resolve(text)

	var err error
	if len(missing) > 0 {
		switch c.missingAction {
		case MissingEmpty:
			resolved = replaceFunc(tokenRe, resolved, func(*regexp2.Match) string { return "" })
		case MissingError:
			err = &UndefinedVariableError{Names: missing}
		}
	}

	body, flags := SplitFlags(resolved)
	return Rewrite(body), flags, err
}

// Compile expands text and builds the native pattern. Engine rejections
// return a *PatternSyntaxError; under MissingError unresolved tokens return
// an *UndefinedVariableError.
func (c *Compiler) Compile(text string) (*Compiled, error) {
	return c.CompileContext(context.Background(), text)
}

// CompileContext is Compile with a context for metrics.
func (c *Compiler) CompileContext(ctx context.Context, text string) (*Compiled, error) {
	p, err := c.compile(text)
	c.metrics.RecordCompile(ctx, false, err)
	return p, err
}

func (c *Compiler) compile(text string) (*Compiled, error) {
	done := observability.TimedOperation()

	src, flags, ok := c.loadSource(text)
	if !ok {
		var err error
		src, flags, err = c.expand(text)
		if err != nil {
			return nil, err
		}
		c.saveSource(text, src, flags)
	}

	re, err := regexp2.Compile(src, engineOptions(flags))
	if err != nil {
		serr := &PatternSyntaxError{Pattern: text, Source: src, Err: err}
		observability.LogCompileError(c.logger, text, serr)
		return nil, serr
	}
	if c.matchTimeout > 0 {
		re.MatchTimeout = c.matchTimeout
	}

	observability.LogCompile(c.logger, text, src, flags, done())
	return &Compiled{
		re:      re,
		pattern: text,
		source:  src,
		flags:   flags,
		global:  strings.ContainsRune(flags, 'g'),
	}, nil
}

// MustCompile is Compile that panics on error.
func (c *Compiler) MustCompile(text string) *Compiled {
	p, err := c.Compile(text)
	if err != nil {
		panic(fmt.Sprintf("pattern: %v", err))
	}
	return p
}

// Cached compiles text at most once per Compiler. Failures are not cached,
// so a later call retries.
func (c *Compiler) Cached(text string) (*Compiled, error) {
	return c.CachedContext(context.Background(), text)
}

// CachedContext is Cached with a context for metrics.
func (c *Compiler) CachedContext(ctx context.Context, text string) (*Compiled, error) {
	p, hit, err := c.compiled.GetOrTry(text, func() (*Compiled, error) {
		return c.compile(text)
	})
	c.metrics.RecordCompile(ctx, hit, err)
	return p, err
}

func (c *Compiler) sourceKey(text string) string {
	return cache.Key(c.store.Fingerprint(), text)
}

func (c *Compiler) loadSource(text string) (string, string, bool) {
	if c.sources == nil {
		return "", "", false
	}
	e, err := c.sources.Load(c.sourceKey(text))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			observability.LogStoreError(c.logger, "load", err)
		}
		return "", "", false
	}
	return e.Source, e.Flags, true
}

func (c *Compiler) saveSource(text, src, flags string) {
	if c.sources == nil {
		return
	}
	err := c.sources.Save(cache.Entry{
		Key:     c.sourceKey(text),
		Pattern: text,
		Source:  src,
		Flags:   flags,
		Created: time.Now().UTC(),
	})
	if err != nil {
		observability.LogStoreError(c.logger, "save", err)
	}
}

// Trailing flag forms: "/body/flags" and "body/flags".
var (
	delimitedRe = mustRe(`^/([\s\S]*)/([gmi]{0,3})$`)
	trailingRe  = mustRe(`^([\s\S]*)/([gmi]{1,3})$`)
)

// SplitFlags separates a "/body/flags" pattern into body and flags. A
// leading slash is only stripped together with a trailing delimiter; a
// bare "body/flags" loses just the flags.
func SplitFlags(text string) (body, flags string) {
	for _, re := range []*regexp2.Regexp{delimitedRe, trailingRe} {
		if m, err := re.FindStringMatch(text); err == nil && m != nil {
			body, _ = group(m, 1)
			flags, _ = group(m, 2)
			return body, flags
		}
	}
	return text, ""
}

func engineOptions(flags string) regexp2.RegexOptions {
	opts := regexp2.None
	if strings.ContainsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	return opts
}
