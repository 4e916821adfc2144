package telemetry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "fondhtn-planner"

	metricExpansions       = "planner.expansions.total"
	metricSearchNodes      = "planner.search_nodes.created.total"
	metricRevisionDuration = "planner.revision.duration"
	metricMaxDepth         = "planner.depth.max"
)

// Provider manages OpenTelemetry setup and provides access to the tracer
// and meter a driver.Run invocation records against.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	expansions       metric.Int64Counter
	searchNodes      metric.Int64Counter
	revisionDuration metric.Float64Histogram
	maxDepth         metric.Int64ObservableGauge
	maxDepthValue    atomic.Int64

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a new telemetry provider with a Prometheus metrics
// exporter, scraped over HTTP when the CLI is started with -metrics-addr.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

// initMetrics initializes the metrics provider with a Prometheus exporter.
func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	if err := p.createMetricInstruments(); err != nil {
		return fmt.Errorf("failed to create metric instruments: %w", err)
	}

	return nil
}

// initTracing initializes the tracing provider. Spans are not exported
// anywhere dedicated yet; this uses whatever global tracer provider the
// host process configured, unlike initMetrics, which builds its own meter
// provider and installs it as the global one.
func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

// createMetricInstruments creates the driver's four metric instruments.
func (p *Provider) createMetricInstruments() error {
	var err error

	p.expansions, err = p.meter.Int64Counter(
		metricExpansions,
		metric.WithDescription("Total number of AO* tip-node expansions"),
	)
	if err != nil {
		return err
	}

	p.searchNodes, err = p.meter.Int64Counter(
		metricSearchNodes,
		metric.WithDescription("Total number of search-graph nodes created"),
	)
	if err != nil {
		return err
	}

	p.revisionDuration, err = p.meter.Float64Histogram(
		metricRevisionDuration,
		metric.WithDescription("Duration of one expand+revise driver iteration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.maxDepth, err = p.meter.Int64ObservableGauge(
		metricMaxDepth,
		metric.WithDescription("Deepest search-graph node reached so far"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(p.maxDepthValue.Load())
			return nil
		}),
	)
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordExpansion records one AO* tip-node expansion.
func (p *Provider) RecordExpansion(ctx context.Context, searchNodeID int) {
	if p.meter == nil {
		return
	}
	p.expansions.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("search_node.id", searchNodeID),
	))
}

// RecordSearchNodesCreated records how many new search-graph nodes one
// expansion introduced.
func (p *Provider) RecordSearchNodesCreated(ctx context.Context, count int) {
	if p.meter == nil {
		return
	}
	p.searchNodes.Add(ctx, int64(count))
}

// RecordRevisionDuration records the wall-clock time one expand+revise
// driver iteration took.
func (p *Provider) RecordRevisionDuration(ctx context.Context, duration time.Duration) {
	if p.meter == nil {
		return
	}
	p.revisionDuration.Record(ctx, float64(duration.Microseconds())/1000.0)
}

// SetMaxDepth records depth as the deepest search-graph node reached so
// far, ignoring depths no deeper than what is already recorded. The
// observable gauge reads this value back at scrape time, so callers can
// call this as often as they like without a metric export round-trip.
func (p *Provider) SetMaxDepth(depth int) {
	for {
		cur := p.maxDepthValue.Load()
		if int64(depth) <= cur {
			return
		}
		if p.maxDepthValue.CompareAndSwap(cur, int64(depth)) {
			return
		}
	}
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}

	return nil
}
