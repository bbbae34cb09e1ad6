package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records fillkit metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records a pattern compile, whether it was served from
	// the cache, and its error status.
	RecordCompile(ctx context.Context, cached bool, err error)

	// RecordFormat records a top-level format call.
	RecordFormat(ctx context.Context, duration time.Duration, err error)

	// RecordDirective records one rendered directive by shape.
	RecordDirective(ctx context.Context, shape string, strict bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	compiles      metric.Int64Counter
	cacheHits     metric.Int64Counter
	compileErrors metric.Int64Counter
	formatCalls   metric.Int64Counter
	formatLatency metric.Float64Histogram
	directives    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("fillkit")

	compiles, err := meter.Int64Counter("fillkit.pattern.compiles",
		metric.WithDescription("Number of pattern compiles"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("fillkit.pattern.cache_hits",
		metric.WithDescription("Number of compiles served from the pattern cache"),
	)
	if err != nil {
		return nil, err
	}

	compileErrors, err := meter.Int64Counter("fillkit.pattern.errors",
		metric.WithDescription("Number of patterns rejected by the regex engine"),
	)
	if err != nil {
		return nil, err
	}

	formatCalls, err := meter.Int64Counter("fillkit.format.calls",
		metric.WithDescription("Number of top-level format calls"),
	)
	if err != nil {
		return nil, err
	}

	formatLatency, err := meter.Float64Histogram("fillkit.format.latency_ms",
		metric.WithDescription("Format call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	directives, err := meter.Int64Counter("fillkit.directive.renders",
		metric.WithDescription("Number of directives rendered"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compiles:      compiles,
		cacheHits:     cacheHits,
		compileErrors: compileErrors,
		formatCalls:   formatCalls,
		formatLatency: formatLatency,
		directives:    directives,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCompile records a pattern compile.
func (m *otelMetrics) RecordCompile(ctx context.Context, cached bool, err error) {
	attrs := metric.WithAttributes(attribute.Bool("cached", cached))

	m.compiles.Add(ctx, 1, attrs)
	if cached {
		m.cacheHits.Add(ctx, 1)
	}
	if err != nil {
		m.compileErrors.Add(ctx, 1)
	}
}

// RecordFormat records a format call.
func (m *otelMetrics) RecordFormat(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.formatCalls.Add(ctx, 1, attrs)
	m.formatLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordDirective records a rendered directive.
func (m *otelMetrics) RecordDirective(ctx context.Context, shape string, strict bool) {
	m.directives.Add(ctx, 1, metric.WithAttributes(
		attribute.String("shape", shape),
		attribute.Bool("strict", strict),
	))
}
