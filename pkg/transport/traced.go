package transport

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Outcome labels recorded on metrics.
const (
	OutcomeOK        = "ok"
	OutcomeAPIError  = "api_error"
	OutcomeTransport = "transport_error"
)

// Traced decorates a Requester with a client span, a request counter and a
// latency histogram per exchange.
type Traced struct {
	next     Requester
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

var _ Requester = (*Traced)(nil)

// NewTraced wraps next.
func NewTraced(next Requester, tracer trace.Tracer, meter metric.Meter) (*Traced, error) {
	requests, err := meter.Int64Counter(
		"feishu_api_requests_total",
		metric.WithDescription("Total number of Feishu open API requests"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"feishu_api_request_duration_seconds",
		metric.WithDescription("Feishu open API request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Traced{next: next, tracer: tracer, requests: requests, duration: duration}, nil
}

// Request runs next inside a span.
func (t *Traced) Request(ctx context.Context, req *Request) (*Envelope, error) {
	name := req.Operation
	if name == "" {
		name = req.Method
	}

	ctx, span := t.tracer.Start(ctx, "feishu."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("feishu.api.path", req.Path),
		),
	)
	defer span.End()

	start := time.Now()
	env, err := t.next.Request(ctx, req)

	var outcome string
	switch {
	case err != nil:
		outcome = OutcomeTransport
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case !env.OK():
		outcome = OutcomeAPIError
		span.SetAttributes(attribute.Int("feishu.api.code", env.Code))
		span.SetStatus(codes.Error, env.Msg)
	default:
		outcome = OutcomeOK
		span.SetAttributes(attribute.Int("feishu.api.code", env.Code))
		span.SetStatus(codes.Ok, "")
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", name),
		attribute.String("outcome", outcome),
	)
	t.requests.Add(ctx, 1, attrs)
	t.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	return env, err
}
