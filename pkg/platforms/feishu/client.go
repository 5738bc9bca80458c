// Package feishu is a client for the Feishu open platform: contacts,
// messaging, chat membership and tasks. Each method performs one (or, for
// composite operations, a fixed sequence of) authenticated request(s) and
// unwraps the response envelope.
//
// Application failures (envelope code != 0) are not returned as errors.
// Unwrapping methods return a Result whose Get reports absence; pass-through
// methods return the raw envelope. Errors are reserved for transport
// failures, missing required arguments and responses that lack a structure
// the method depends on.
package feishu

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/feishukit/pkg/config"
	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/logger"
	"github.com/kart-io/feishukit/pkg/observability"
	"github.com/kart-io/feishukit/pkg/transport"
)

// Client is the platform façade. It holds no per-call state; pagination
// cursors live only inside ListChatMembers.
type Client struct {
	requester transport.Requester
	logger    logger.Logger
	closer    io.Closer
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	logger logger.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

// WithLogger overrides the logger taken from the configuration.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTelemetry records spans and metrics through the given provider.
func WithTelemetry(p *observability.Provider) Option {
	return func(o *options) {
		o.tracer = p.Tracer()
		o.meter = p.Meter()
	}
}

// WithTracer records spans and metrics with an explicit tracer and meter.
func WithTracer(tracer trace.Tracer, meter metric.Meter) Option {
	return func(o *options) {
		o.tracer = tracer
		o.meter = meter
	}
}

// New creates a client that owns a Lark SDK backed requester built from
// cfg's app credentials. Close releases it.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidConfig, "config cannot be nil")
	}
	config.SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: cfg.GetLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	lr, err := transport.NewLarkRequester(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := newClient(lr, o)
	if err != nil {
		_ = lr.Close()
		return nil, err
	}
	c.closer = lr
	return c, nil
}

// NewWithRequester creates a client over any Requester.
func NewWithRequester(r transport.Requester, opts ...Option) (*Client, error) {
	if r == nil {
		return nil, errors.New(errors.ErrInvalidConfig, "requester cannot be nil")
	}
	o := options{logger: logger.Discard}
	for _, opt := range opts {
		opt(&o)
	}
	return newClient(r, o)
}

func newClient(r transport.Requester, o options) (*Client, error) {
	if o.logger == nil {
		o.logger = logger.Discard
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(observability.InstrumentationName)
	}
	if o.meter == nil {
		o.meter = otel.Meter(observability.InstrumentationName)
	}

	traced, err := transport.NewTraced(r, o.tracer, o.meter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "create instruments")
	}
	return &Client{requester: traced, logger: o.logger}, nil
}

// Close releases resources owned by the client.
func (c *Client) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// do performs one exchange. Application failures are logged and returned
// as envelopes.
func (c *Client) do(ctx context.Context, req *transport.Request) (*transport.Envelope, error) {
	c.logger.Debug("Calling Feishu API", "operation", req.Operation, "method", req.Method, "path", req.Path)

	env, err := c.requester.Request(ctx, req)
	if err != nil {
		c.logger.Error("Feishu API request failed", "operation", req.Operation, "error", err)
		return nil, err
	}
	if env == nil {
		return nil, errors.New(errors.ErrMalformedEnvelope, "empty response").
			WithOperation(req.Operation).WithPath(req.Path)
	}
	if !env.OK() {
		c.logger.Warn("Feishu API returned error code", "operation", req.Operation, "code", env.Code, "msg", env.Msg)
	}
	return env, nil
}

func required(op, name, value string) error {
	if value == "" {
		return errors.Newf(errors.ErrInvalidArgument, "%s is required", name).WithOperation(op)
	}
	return nil
}
