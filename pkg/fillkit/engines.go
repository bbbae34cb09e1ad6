package fillkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/fillkit/pkg/fillkit/cache"
	"github.com/randalmurphal/fillkit/pkg/fillkit/config"
	"github.com/randalmurphal/fillkit/pkg/fillkit/format"
	"github.com/randalmurphal/fillkit/pkg/fillkit/pattern"
)

// MemoryStore is the source_store value that keeps expanded sources in
// process memory.
const MemoryStore = ":memory:"

// Engines is a Compiler and a Formatter built from one configuration. The
// Formatter compiles its search/replace patterns through the Compiler, so
// both see the same variables.
//
// Engines are safe for concurrent use. Close releases the source store.
type Engines struct {
	Compiler  *pattern.Compiler
	Formatter *format.Formatter

	store cache.Store
}

// Load reads a configuration file (.yaml, .yml or .json) and builds
// engines from it.
func Load(path string, opts ...Option) (*Engines, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, opts...)
}

// FromConfig builds engines from cfg. See the config package for the
// recognized keys; unknown keys are ignored and missing ones take their
// defaults.
func FromConfig(cfg config.Config, opts ...Option) (*Engines, error) {
	ec := defaultEngineConfig()
	for _, opt := range opts {
		opt(&ec)
	}

	vars, err := variables(cfg)
	if err != nil {
		return nil, err
	}
	nests := cfg.StringMap(config.KeyNests, nil)
	if nests == nil && cfg.Any(config.KeyNests, nil) != nil {
		return nil, &ConfigError{Key: config.KeyNests, Reason: "must map names to template strings"}
	}
	maxDepth := cfg.Int(config.KeyMaxDepth, format.DefaultMaxDepth)
	if maxDepth <= 0 {
		return nil, &ConfigError{Key: config.KeyMaxDepth, Reason: fmt.Sprintf("must be a positive integer, got %v", cfg.Any(config.KeyMaxDepth, nil))}
	}
	timeout := cfg.Duration(config.KeyMatchTimeout, 0)
	if timeout < 0 {
		return nil, &ConfigError{Key: config.KeyMatchTimeout, Reason: "must not be negative"}
	}
	debug := cfg.Any(config.KeyDebug, nil)
	if letters := cfg.StringSlice(config.KeyDebug, nil); letters != nil {
		debug = letters
	}
	shapes, err := DebugShapes(debug)
	if err != nil {
		return nil, err
	}

	var store cache.Store
	if path := cfg.String(config.KeySourceStore, ""); path != "" {
		if store, err = openStore(path); err != nil {
			return nil, fmt.Errorf("open source store: %w", err)
		}
	}

	compilerOpts := []pattern.Option{
		pattern.WithLogger(ec.logger),
		pattern.WithMetrics(ec.metrics),
		pattern.WithMatchTimeout(timeout),
	}
	if store != nil {
		compilerOpts = append(compilerOpts, pattern.WithSourceStore(store))
	}
	compiler := pattern.NewCompiler(vars, compilerOpts...)

	formatter := format.New(nests, format.DebugConfig{Shapes: shapes, Logger: ec.logger},
		format.WithMaxDepth(maxDepth),
		format.WithCompiler(compiler),
		format.WithMetrics(ec.metrics),
		format.WithSpanManager(ec.spans),
		format.WithLogger(ec.logger),
	)

	return &Engines{Compiler: compiler, Formatter: formatter, store: store}, nil
}

// Format renders template with args.
func (e *Engines) Format(template string, args ...any) (string, error) {
	return e.Formatter.Format(template, args...)
}

// FormatContext renders template with args under ctx.
func (e *Engines) FormatContext(ctx context.Context, template string, args ...any) (string, error) {
	return e.Formatter.FormatContext(ctx, template, args...)
}

// Compile returns the cached compiled form of a pattern.
func (e *Engines) Compile(text string) (*pattern.Compiled, error) {
	return e.Compiler.Cached(text)
}

// Store returns the source store, or nil when none is configured.
func (e *Engines) Store() cache.Store {
	return e.store
}

// Close releases the source store. The engines keep working afterwards,
// without persistence.
func (e *Engines) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// DebugShapes reads a debug setting: true for every shape, false or nil
// for none, or shape letters (N, L, O, K) as a list or a single string.
func DebugShapes(v any) ([]format.Shape, error) {
	var letters []string
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if val {
			return format.AllShapes(), nil
		}
		return nil, nil
	case string:
		for _, r := range strings.ReplaceAll(val, ",", "") {
			letters = append(letters, string(r))
		}
	case []string:
		letters = val
	case []any:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &ConfigError{Key: config.KeyDebug, Reason: fmt.Sprintf("shape letter must be a string, got %T", item)}
			}
			letters = append(letters, s)
		}
	default:
		return nil, &ConfigError{Key: config.KeyDebug, Reason: fmt.Sprintf("must be a bool or shape letters, got %T", v)}
	}

	var shapes []format.Shape
	for _, l := range letters {
		if strings.TrimSpace(l) == "" {
			continue
		}
		s := format.ParseShapes(l)
		if len(s) != 1 {
			return nil, &ConfigError{Key: config.KeyDebug, Reason: fmt.Sprintf("unknown shape letter %q (want N, L, O or K)", l)}
		}
		shapes = append(shapes, s[0])
	}
	return shapes, nil
}

func variables(cfg config.Config) (pattern.Vars, error) {
	if !cfg.Has(config.KeyVariables) || cfg.Any(config.KeyVariables, nil) == nil {
		return nil, nil
	}
	m := cfg.Map(config.KeyVariables, nil)
	if m == nil {
		return nil, &ConfigError{Key: config.KeyVariables, Reason: "must be a map"}
	}
	return pattern.Vars(m), nil
}

func openStore(path string) (cache.Store, error) {
	if path == MemoryStore {
		return cache.NewMemoryStore(), nil
	}
	return cache.NewSQLiteStore(path)
}
