package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{buf: &bytes.Buffer{}, level: slog.LevelDebug}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{buf: h.buf, level: h.level}
	newH.attrs = append(append(newH.attrs, h.attrs...), attrs...)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }

func (h *testHandler) lastRecord() map[string]any {
	lines := bytes.Split(bytes.TrimSpace(h.buf.Bytes()), []byte("\n"))
	if len(lines) == 0 || len(lines[len(lines)-1]) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		return nil
	}
	return m
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds call_id and depth", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "call-1", 3)
		enriched.Info("test message")

		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "call-1", record["call_id"])
		assert.Equal(t, float64(3), record["depth"]) // JSON decodes ints as float64
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "call-1", 0))
	})
}

func TestLogHelpers(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		msg   string
		level string
		field string
		want  any
	}{
		{
			name:  "compile",
			log:   func(l *slog.Logger) { LogCompile(l, "a{{B}}", "ab", "g", 1.5) },
			msg:   "pattern compiled",
			level: "DEBUG",
			field: "source",
			want:  "ab",
		},
		{
			name:  "compile error",
			log:   func(l *slog.Logger) { LogCompileError(l, "(", errors.New("missing )")) },
			msg:   "pattern compile failed",
			level: "WARN",
			field: "error",
			want:  "missing )",
		},
		{
			name:  "format",
			log:   func(l *slog.Logger) { LogFormat(l, "call-2", 0.5, 4, nil) },
			msg:   "format completed",
			level: "DEBUG",
			field: "directives",
			want:  float64(4),
		},
		{
			name:  "format error",
			log:   func(l *slog.Logger) { LogFormat(l, "call-3", 0.5, 0, errors.New("too deep")) },
			msg:   "format failed",
			level: "ERROR",
			field: "error",
			want:  "too deep",
		},
		{
			name:  "directive",
			log:   func(l *slog.Logger) { LogDirective(l, "scalar", "%s", "v", "v") },
			msg:   "directive rendered",
			level: "DEBUG",
			field: "shape",
			want:  "scalar",
		},
		{
			name:  "store error",
			log:   func(l *slog.Logger) { LogStoreError(l, "save", errors.New("disk full")) },
			msg:   "source store failed",
			level: "WARN",
			field: "operation",
			want:  "save",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			tt.log(slog.New(h))

			record := h.lastRecord()
			require.NotNil(t, record)
			assert.Equal(t, tt.msg, record["msg"])
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, tt.want, record[tt.field])
		})

		t.Run(tt.name+" nil logger", func(t *testing.T) {
			assert.NotPanics(t, func() { tt.log(nil) })
		})
	}
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), float64(4))
}
