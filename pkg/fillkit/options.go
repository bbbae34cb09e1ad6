package fillkit

import (
	"log/slog"

	"github.com/randalmurphal/fillkit/pkg/fillkit/observability"
)

// engineConfig holds the observability wiring shared by both engines.
type engineConfig struct {
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	metricsEnabled bool
	tracingEnabled bool
}

// defaultEngineConfig returns silent engines: no logger, no-op metrics and
// spans.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures the engines built by FromConfig and Load.
type Option func(*engineConfig)

// WithLogger sets the logger for compile, format and debug records.
// Default: nil (silent)
//
// Debug records are logged at Debug level, so the handler must allow it
// for the debug key to show anything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// Default: false
//
// Configure the global MeterProvider before building engines.
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		c.metricsEnabled = enabled
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables or disables OpenTelemetry tracing of format calls.
// Default: false
//
// Debug records become events on the fillkit.format span.
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithMetricsRecorder uses m in place of the OpenTelemetry recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m != nil {
			c.metricsEnabled = true
			c.metrics = m
		}
	}
}

// WithSpanManager uses sm in place of the OpenTelemetry span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		if sm != nil {
			c.tracingEnabled = true
			c.spans = sm
		}
	}
}
