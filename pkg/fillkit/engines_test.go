package fillkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fillkit/pkg/fillkit/cache"
	"github.com/randalmurphal/fillkit/pkg/fillkit/config"
	"github.com/randalmurphal/fillkit/pkg/fillkit/format"
	"github.com/randalmurphal/fillkit/pkg/fillkit/observability"
)

type countingMetrics struct {
	mu       sync.Mutex
	compiles int
	formats  int
}

func (m *countingMetrics) RecordCompile(context.Context, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compiles++
}

func (m *countingMetrics) RecordFormat(context.Context, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formats++
}

func (m *countingMetrics) RecordDirective(context.Context, string, bool) {}

func TestFromConfig_Defaults(t *testing.T) {
	e, err := FromConfig(config.New(nil))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, format.DefaultMaxDepth, e.Formatter.MaxDepth())
	assert.Nil(t, e.Store())

	out, err := e.Format("%[%s|;/, ]s", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a, b", out)
}

func TestFromConfig_Keys(t *testing.T) {
	cfg := config.New(map[string]any{
		config.KeyVariables:    map[string]any{"Vowel": "[aeiou]"},
		config.KeyNests:        map[string]any{"Full": "%(first)s %(last)s"},
		config.KeyMaxDepth:     3,
		config.KeyDebug:        []any{"K"},
		config.KeyMatchTimeout: "1s",
		config.KeySourceStore:  MemoryStore,
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, err := FromConfig(cfg, WithLogger(logger))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 3, e.Formatter.MaxDepth())

	// the formatter's search/replace sees the compiler's variables
	out, err := e.Format("%|=/{{Vowel}}/*|s", "banana")
	require.NoError(t, err)
	assert.Equal(t, "b*n*n*", out)

	out, err = e.Format("%(who<<Full>>)s", map[string]any{"who": map[string]any{"first": "Rae", "last": "Kim"}})
	require.NoError(t, err)
	assert.Equal(t, "Rae Kim", out)

	require.NotNil(t, e.Store())
	entries, err := e.Store().List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "{{Vowel}}", entries[0].Pattern)
	assert.Equal(t, "[aeiou]", entries[0].Source)

	var named int
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec["msg"] == "directive rendered" {
			assert.Equal(t, "named", rec["shape"])
			named++
		}
	}
	// the outer lookup plus the two inside the nest
	assert.Equal(t, 3, named)
}

func TestFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		key  string
	}{
		{"variables not a map", map[string]any{config.KeyVariables: "x"}, config.KeyVariables},
		{"nests with a number", map[string]any{config.KeyNests: map[string]any{"A": 1}}, config.KeyNests},
		{"zero depth", map[string]any{config.KeyMaxDepth: 0}, config.KeyMaxDepth},
		{"negative depth", map[string]any{config.KeyMaxDepth: -2}, config.KeyMaxDepth},
		{"negative timeout", map[string]any{config.KeyMatchTimeout: "-1s"}, config.KeyMatchTimeout},
		{"unknown shape", map[string]any{config.KeyDebug: "LZ"}, config.KeyDebug},
		{"number debug", map[string]any{config.KeyDebug: 3}, config.KeyDebug},
		{"non string letter", map[string]any{config.KeyDebug: []any{"L", 1}}, config.KeyDebug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(config.New(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.key, ce.Key)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestFromConfig_DebugListFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte("debug: [L]\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, err := FromConfig(cfg, WithLogger(logger))
	require.NoError(t, err)
	defer e.Close()

	out, err := e.Format("%s %[%s|;/+]s", "x", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "x a+b", out)

	var shapes []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec["msg"] == "directive rendered" {
			shapes = append(shapes, rec["shape"].(string))
		}
	}
	assert.Equal(t, []string{"list"}, shapes)
}

func TestFromConfig_BadStorePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "p.db")
	_, err := FromConfig(config.New(map[string]any{config.KeySourceStore: path}))
	assert.ErrorContains(t, err, "open source store")
}

func TestLoad_PersistsSources(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "patterns.db")
	path := filepath.Join(dir, "fillkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
variables:
  Sep: ","
  Date:
    Y: \d{4}
source_store: `+db+`
max_depth: 8
debug: false
`), 0o644))

	e, err := Load(path)
	require.NoError(t, err)
	p, err := e.Compile(`{{Date.Y}}{{Sep}}`)
	require.NoError(t, err)
	assert.Equal(t, `\d{4},`, p.Source())
	assert.Equal(t, 8, e.Formatter.MaxDepth())
	require.NoError(t, e.Close())

	// a fresh process finds the expansion in the store
	again, err := Load(path)
	require.NoError(t, err)
	defer again.Close()

	_, isSQLite := again.Store().(*cache.SQLiteStore)
	assert.True(t, isSQLite)
	entries, err := again.Store().List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, `{{Date.Y}}{{Sep}}`, entries[0].Pattern)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestDebugShapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []format.Shape
	}{
		{"nil", nil, nil},
		{"false", false, nil},
		{"true", true, format.AllShapes()},
		{"letters string", "LK", []format.Shape{format.ShapeList, format.ShapeNamed}},
		{"comma string", "n, o", []format.Shape{format.ShapeScalar, format.ShapeKeyedMap}},
		{"string list", []string{"O"}, []format.Shape{format.ShapeKeyedMap}},
		{"decoded list", []any{"N", "L"}, []format.Shape{format.ShapeScalar, format.ShapeList}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DebugShapes(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngines_Observability(t *testing.T) {
	m := &countingMetrics{}
	e, err := FromConfig(config.New(nil), WithMetricsRecorder(m))
	require.NoError(t, err)

	_, err = e.Compile("a+")
	require.NoError(t, err)
	_, err = e.FormatContext(context.Background(), "%s", "x")
	require.NoError(t, err)

	assert.Equal(t, 1, m.compiles)
	assert.Equal(t, 1, m.formats)
}

func TestOptions_AreApplied(t *testing.T) {
	t.Run("WithMetrics", func(t *testing.T) {
		c := defaultEngineConfig()
		WithMetrics(true)(&c)
		assert.True(t, c.metricsEnabled)
		assert.NotNil(t, c.metrics)

		WithMetrics(false)(&c)
		assert.False(t, c.metricsEnabled)
		assert.Equal(t, observability.NoopMetrics{}, c.metrics)
	})

	t.Run("WithTracing", func(t *testing.T) {
		c := defaultEngineConfig()
		WithTracing(true)(&c)
		assert.True(t, c.tracingEnabled)
		assert.NotNil(t, c.spans)

		WithTracing(false)(&c)
		assert.False(t, c.tracingEnabled)
		assert.Equal(t, observability.NoopSpanManager{}, c.spans)
	})

	t.Run("nil recorders are ignored", func(t *testing.T) {
		c := defaultEngineConfig()
		WithMetricsRecorder(nil)(&c)
		WithSpanManager(nil)(&c)
		assert.False(t, c.metricsEnabled)
		assert.False(t, c.tracingEnabled)
	})

	t.Run("WithLogger", func(t *testing.T) {
		c := defaultEngineConfig()
		logger := slog.Default()
		WithLogger(logger)(&c)
		assert.Equal(t, logger, c.logger)
	})
}

func TestPackageHelpers(t *testing.T) {
	assert.Same(t, Default(), Default())

	out, err := Format("%(name)s has %[%s|;/, |&/ and ]s", []string{"a", "b", "c"}, map[string]any{"name": "Rae"})
	require.NoError(t, err)
	assert.Equal(t, "Rae has a, b and c", out)

	assert.Equal(t, "x", MustFormat("%s", "x"))

	p, err := Compile(`<ab/^/cd>`)
	require.NoError(t, err)
	assert.Equal(t, "[ab][^abcd][cd]", p.Source())

	_, err = Compile("a(b")
	assert.Error(t, err)
}
