// Package observability wires OpenTelemetry tracing and metrics for the
// analysis and generation pipelines, with a Prometheus exporter serving the
// metrics endpoint on a standalone server.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumelens/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds all custom metrics for resumelens
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business metrics
	ResumesAnalyzed       metric.Int64Counter
	CoverLettersGenerated metric.Int64Counter
	CacheHits             metric.Int64Counter
	FallbacksServed       metric.Int64Counter
}

// Manager manages OpenTelemetry setup
type Manager struct {
	config           ObservabilityConfig
	fullConfig       *config.Config
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	prometheusServer *http.ServeMux
}

// NewManager creates a new observability manager. When observability is
// disabled the manager is inert and every operation is a no-op.
func NewManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*Manager, error) {
	if !obsConfig.Enabled {
		return &Manager{config: obsConfig, fullConfig: fullConfig}, nil
	}

	m := &Manager{
		config:        obsConfig,
		fullConfig:    fullConfig,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

func (m *Manager) createResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.config.ServiceName),
			semconv.ServiceVersion(m.config.ServiceVersion),
			attribute.String("service.instance.id", m.getServiceInstanceID()),
		),
	)
}

// initTracing sets up OpenTelemetry tracing. Spans stay in-process; the
// exporter is a no-op unless a future deployment wires a real one.
func (m *Manager) initTracing() error {
	res, err := m.createResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(&noOpSpanExporter{}),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)

	return nil
}

// initMetrics sets up OpenTelemetry metrics
func (m *Manager) initMetrics() error {
	readers, err := m.setupMetricReaders()
	if err != nil {
		return err
	}

	res, err := m.createResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	meterProviderOptions := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}
	for _, reader := range readers {
		meterProviderOptions = append(meterProviderOptions, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(meterProviderOptions...)

	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

// setupMetricReaders sets up all metric readers based on configuration
func (m *Manager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if m.config.Prometheus.Enabled {
		prometheusReader, prometheusMux, err := SetupPrometheusExporter(m.config.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		if prometheusReader != nil {
			readers = append(readers, prometheusReader)
			m.prometheusServer = prometheusMux

			if err := StartPrometheusServer(prometheusMux, m.config.Prometheus.Port); err != nil {
				return nil, fmt.Errorf("failed to start Prometheus server: %w", err)
			}
		}
	}

	// If no readers configured, use manual reader as fallback
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

// initCustomMetrics creates all custom metrics for resumelens
func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.config.ServiceName)
	m.metrics = &Metrics{}

	if err := m.createAIMetrics(meter); err != nil {
		return err
	}

	return m.createBusinessMetrics(meter)
}

// createAIMetrics creates AI-related metrics
func (m *Manager) createAIMetrics(meter metric.Meter) error {
	var err error

	m.metrics.AIProcessingTime, err = meter.Float64Histogram(
		"resumelens_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.metrics.AIRequestCount, err = meter.Int64Counter(
		"resumelens_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.metrics.AIErrorCount, err = meter.Int64Counter(
		"resumelens_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.metrics.AITokenUsage, err = meter.Int64Histogram(
		"resumelens_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return nil
}

// createBusinessMetrics creates business-related metrics
func (m *Manager) createBusinessMetrics(meter metric.Meter) error {
	var err error

	m.metrics.ResumesAnalyzed, err = meter.Int64Counter(
		"resumelens_resumes_analyzed_total",
		metric.WithDescription("Total number of resumes analyzed"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes analyzed metric: %w", err)
	}

	m.metrics.CoverLettersGenerated, err = meter.Int64Counter(
		"resumelens_cover_letters_generated_total",
		metric.WithDescription("Total number of cover letters generated"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cover letters generated metric: %w", err)
	}

	m.metrics.CacheHits, err = meter.Int64Counter(
		"resumelens_cache_hits_total",
		metric.WithDescription("Total number of result cache hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache hits metric: %w", err)
	}

	m.metrics.FallbacksServed, err = meter.Int64Counter(
		"resumelens_fallbacks_served_total",
		metric.WithDescription("Total number of deterministic fallback results served"),
	)
	if err != nil {
		return fmt.Errorf("failed to create fallbacks served metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{} // Return empty metrics if not initialized
	}
	return m.metrics
}

// Tracer returns a tracer for the service
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown gracefully shuts down all observability components
func (m *Manager) Shutdown(ctx context.Context) error {
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// TokenUsage carries token counts reported by a provider call
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TrackOperation instruments one pipeline operation with duration, request
// count, error count, and token usage metrics. usage may be nil.
func (m *Manager) TrackOperation(ctx context.Context, operation string, duration time.Duration, usage *TokenUsage, opErr error) {
	metrics := m.GetMetrics()
	if metrics.AIRequestCount == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", opErr == nil),
	}

	metrics.AIProcessingTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	metrics.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if opErr != nil {
		metrics.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if usage != nil && metrics.AITokenUsage != nil {
		for _, tt := range []struct {
			tokenType string
			value     int64
		}{
			{"input", usage.InputTokens},
			{"output", usage.OutputTokens},
			{"total", usage.TotalTokens},
		} {
			tokenAttrs := append(attrs, attribute.String("token_type", tt.tokenType))
			metrics.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
		}
	}
}

// RecordBusinessMetric records one business counter increment
func (m *Manager) RecordBusinessMetric(ctx context.Context, metricType string, success bool, attributes ...attribute.KeyValue) {
	metrics := m.GetMetrics()

	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	switch metricType {
	case "resume_analyzed":
		if metrics.ResumesAnalyzed != nil {
			metrics.ResumesAnalyzed.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	case "cover_letter_generated":
		if metrics.CoverLettersGenerated != nil {
			metrics.CoverLettersGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	case "cache_hit":
		if metrics.CacheHits != nil {
			metrics.CacheHits.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	case "fallback_served":
		if metrics.FallbacksServed != nil {
			metrics.FallbacksServed.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}
}

// getServiceInstanceID returns the service instance ID from config or a default
func (m *Manager) getServiceInstanceID() string {
	if m.fullConfig != nil && m.fullConfig.Observability.ServiceInstance != "" {
		return m.fullConfig.Observability.ServiceInstance
	}
	return "resumelens-1"
}

// noOpSpanExporter drops spans; tracing stays useful in-process via the
// tracer API without an export destination.
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(_ context.Context, _ []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(_ context.Context) error {
	return nil
}
