// Package observability provides the logging, metrics and tracing hooks
// shared by the pattern compiler and the formatter.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds format-call context to a logger.
// Returns a new logger with call_id and depth fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, callID, 2)
//	enriched.Debug("rendering") // includes call_id, depth
func EnrichLogger(logger *slog.Logger, callID string, depth int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("call_id", callID),
		slog.Int("depth", depth),
	)
}

// LogCompile logs a successful pattern compile.
func LogCompile(logger *slog.Logger, pattern, source, flags string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("pattern compiled",
		slog.String("pattern", pattern),
		slog.String("source", source),
		slog.String("flags", flags),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompileError logs a pattern the native engine rejected.
func LogCompileError(logger *slog.Logger, pattern string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("pattern compile failed",
		slog.String("pattern", pattern),
		slog.String("error", err.Error()),
	)
}

// LogFormat logs a completed top-level format call.
func LogFormat(logger *slog.Logger, callID string, durationMs float64, directives int, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("format failed",
			slog.String("call_id", callID),
			slog.String("error", err.Error()),
			slog.Float64("duration_ms", durationMs),
		)
		return
	}
	logger.Debug("format completed",
		slog.String("call_id", callID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("directives", directives),
	)
}

// LogDirective logs one directive evaluation.
func LogDirective(logger *slog.Logger, shape, directive string, value any, output string) {
	if logger == nil {
		return
	}
	logger.Debug("directive rendered",
		slog.String("shape", shape),
		slog.String("directive", directive),
		slog.Any("value", value),
		slog.String("output", output),
	)
}

// LogStoreError logs a source-store failure (non-fatal).
func LogStoreError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("source store failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
