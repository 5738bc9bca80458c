// Package observability wires OpenTelemetry tracing for feishukit.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/feishukit/pkg/config"
)

// InstrumentationName is the tracer and meter name used by feishukit.
const InstrumentationName = "github.com/kart-io/feishukit"

// Provider owns the tracer provider when telemetry export is enabled.
type Provider struct {
	config        config.TelemetryConfig
	tracer        trace.Tracer
	meter         metric.Meter
	traceProvider *sdktrace.TracerProvider
}

// NewProvider creates a telemetry provider. With telemetry disabled it
// hands out the global (usually no-op) tracer and meter.
func NewProvider(ctx context.Context, cfg config.TelemetryConfig) (*Provider, error) {
	p := &Provider{config: cfg}

	if !cfg.Enabled {
		p.tracer = otel.Tracer(InstrumentationName)
		p.meter = otel.Meter(InstrumentationName)
		return p, nil
	}

	if err := p.initTracing(ctx); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	p.meter = otel.Meter(InstrumentationName)
	return p, nil
}

func (p *Provider) initTracing(ctx context.Context) error {
	attrs := []attribute.KeyValue{attribute.String("service.name", p.config.ServiceName)}
	if p.config.ServiceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", p.config.ServiceVersion))
	}
	if p.config.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", p.config.Environment))
	}
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(p.config.OTLPEndpoint)}
	if len(p.config.OTLPHeaders) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(p.config.OTLPHeaders))
	}
	if p.config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return fmt.Errorf("create exporter: %w", err)
	}

	p.traceProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(p.config.SampleRate))),
	)

	otel.SetTracerProvider(p.traceProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	p.tracer = p.traceProvider.Tracer(InstrumentationName)
	return nil
}

// Tracer returns the tracer for API calls.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Meter returns the meter for API call metrics.
func (p *Provider) Meter() metric.Meter {
	return p.meter
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.traceProvider != nil
}

// Shutdown flushes and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.traceProvider != nil {
		return p.traceProvider.Shutdown(ctx)
	}
	return nil
}
