package ormnaming

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/arllen133/ormnaming"
	meterName  = "github.com/arllen133/ormnaming"
)

// Metrics holds the OpenTelemetry metric instruments
type Metrics struct {
	ResolveCount      metric.Int64Counter
	ResolveDuration   metric.Float64Histogram
	ResolveErrors     metric.Int64Counter
	NormalizedColumns metric.Int64Counter
	QueryCount        metric.Int64Counter
	QueryDuration     metric.Float64Histogram
	QueryErrors       metric.Int64Counter
}

// ObservabilityConfig holds logging, tracing, and metrics configuration
// shared by Resolver and Session.
type ObservabilityConfig struct {
	Logger             *slog.Logger
	Tracer             trace.Tracer
	Meter              metric.Meter
	Metrics            *Metrics
	SlowQueryThreshold time.Duration
	LogQueries         bool // Log all statements (debug mode)
}

// defaultObservabilityConfig returns a config with no logging/tracing/metrics
func defaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		SlowQueryThreshold: 200 * time.Millisecond,
	}
}

// ObservabilityOption configures logging, tracing and metrics.
type ObservabilityOption func(*ObservabilityConfig)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ObservabilityOption {
	return func(c *ObservabilityConfig) {
		c.Logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer
func WithTracer(tracer trace.Tracer) ObservabilityOption {
	return func(c *ObservabilityConfig) {
		c.Tracer = tracer
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer
func WithDefaultTracer() ObservabilityOption {
	return func(c *ObservabilityConfig) {
		c.Tracer = otel.Tracer(tracerName)
	}
}

// WithMeter sets the OpenTelemetry meter for metrics
func WithMeter(meter metric.Meter) ObservabilityOption {
	return func(c *ObservabilityConfig) {
		c.Meter = meter
		c.Metrics = initMetrics(meter)
	}
}

// WithDefaultMeter uses the global OpenTelemetry meter
func WithDefaultMeter() ObservabilityOption {
	return func(c *ObservabilityConfig) {
		meter := otel.Meter(meterName)
		c.Meter = meter
		c.Metrics = initMetrics(meter)
	}
}

// WithSlowQueryThreshold sets the slow statement threshold for logging
func WithSlowQueryThreshold(d time.Duration) ObservabilityOption {
	return func(c *ObservabilityConfig) {
		c.SlowQueryThreshold = d
	}
}

// WithQueryLogging enables logging of all statements
func WithQueryLogging(enabled bool) ObservabilityOption {
	return func(c *ObservabilityConfig) {
		c.LogQueries = enabled
	}
}

// initMetrics creates all metric instruments
func initMetrics(meter metric.Meter) *Metrics {
	resolveCount, _ := meter.Int64Counter("ormnaming.resolve.count",
		metric.WithDescription("Total number of entity mappings resolved"),
		metric.WithUnit("{entity}"),
	)

	resolveDuration, _ := meter.Float64Histogram("ormnaming.resolve.duration",
		metric.WithDescription("Mapping resolution duration in milliseconds"),
		metric.WithUnit("ms"),
	)

	resolveErrors, _ := meter.Int64Counter("ormnaming.resolve.errors",
		metric.WithDescription("Total number of failed resolutions"),
		metric.WithUnit("{error}"),
	)

	normalized, _ := meter.Int64Counter("ormnaming.column.normalized",
		metric.WithDescription("Columns whose physical name differs from the implicit name"),
		metric.WithUnit("{column}"),
	)

	queryCount, _ := meter.Int64Counter("ormnaming.query.count",
		metric.WithDescription("Total number of SQL statements executed"),
		metric.WithUnit("{query}"),
	)

	queryDuration, _ := meter.Float64Histogram("ormnaming.query.duration",
		metric.WithDescription("Statement execution duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)

	queryErrors, _ := meter.Int64Counter("ormnaming.query.errors",
		metric.WithDescription("Total number of statement errors"),
		metric.WithUnit("{error}"),
	)

	return &Metrics{
		ResolveCount:      resolveCount,
		ResolveDuration:   resolveDuration,
		ResolveErrors:     resolveErrors,
		NormalizedColumns: normalized,
		QueryCount:        queryCount,
		QueryDuration:     queryDuration,
		QueryErrors:       queryErrors,
	}
}

// spanWrapper wraps a trace.Span to handle nil spans gracefully
type spanWrapper struct {
	span trace.Span
}

func (w spanWrapper) End() {
	if w.span != nil {
		w.span.End()
	}
}

func (w spanWrapper) RecordError(err error) {
	if w.span != nil {
		w.span.RecordError(err)
		w.span.SetStatus(codes.Error, err.Error())
	}
}

func (w spanWrapper) SetAttributes(kv ...attribute.KeyValue) {
	if w.span != nil {
		w.span.SetAttributes(kv...)
	}
}

// startSpan starts a new span if tracing is enabled
func (c *ObservabilityConfig) startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, spanWrapper) {
	if c.Tracer == nil {
		return ctx, spanWrapper{nil}
	}
	ctx, span := c.Tracer.Start(ctx, name, opts...)
	return ctx, spanWrapper{span}
}

// recordResolve records resolution metrics if metrics are enabled
func (c *ObservabilityConfig) recordResolve(ctx context.Context, entity string, duration time.Duration, normalized int, err error) {
	if c.Metrics == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("ormnaming.entity", entity))

	c.Metrics.ResolveCount.Add(ctx, 1, attrs)
	c.Metrics.ResolveDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if normalized > 0 {
		c.Metrics.NormalizedColumns.Add(ctx, int64(normalized), attrs)
	}
	if err != nil {
		c.Metrics.ResolveErrors.Add(ctx, 1, attrs)
	}
}

// recordQuery records statement metrics if metrics are enabled
func (c *ObservabilityConfig) recordQuery(ctx context.Context, system, operation string, duration time.Duration, err error) {
	if c.Metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.system", system),
	)

	c.Metrics.QueryCount.Add(ctx, 1, attrs)
	c.Metrics.QueryDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		c.Metrics.QueryErrors.Add(ctx, 1, attrs)
	}
}

// logQuery logs a statement execution
func (c *ObservabilityConfig) logQuery(ctx context.Context, operation, query string, duration time.Duration, err error) {
	if c.Logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Duration("duration", duration),
	}

	if c.LogQueries {
		attrs = append(attrs, slog.String("query", query))
	}

	if err != nil {
		c.Logger.LogAttrs(ctx, slog.LevelError, "query failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}

	if duration > c.SlowQueryThreshold {
		c.Logger.LogAttrs(ctx, slog.LevelWarn, "slow query", attrs...)
		return
	}

	if c.LogQueries {
		c.Logger.LogAttrs(ctx, slog.LevelDebug, "query executed", attrs...)
	}
}
