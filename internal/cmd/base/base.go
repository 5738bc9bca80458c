// Package base holds what every feishuctl command shares: the logger, the
// UI, flag helpers and construction of the platform client.
package base

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/kart-io/feishukit/pkg/config"
	"github.com/kart-io/feishukit/pkg/logger"
	"github.com/kart-io/feishukit/pkg/observability"
	"github.com/kart-io/feishukit/pkg/platforms/feishu"
)

// Command is embedded by every command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	flagConfig   string
	flagLogLevel string
}

// NewCommand returns a Command writing to log and ui.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{Log: log, UI: ui}
}

// FlagSet is a flag.FlagSet that can render its own help.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults for a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n\n")
	f.SetOutput(&buf)
	f.PrintDefaults()
	return strings.TrimRight(buf.String(), "\n")
}

// ClientFlags registers the flags needed to build a client.
func (c *Command) ClientFlags(f *FlagSet) {
	f.StringVar(&c.flagConfig, "config", "",
		"Path to a YAML config file. FEISHU_* environment variables override it.")
	f.StringVar(&c.flagLogLevel, "log-level", "",
		"Log level: silent, error, warn, info or debug.")
}

// Client builds a platform client from -config and the environment. The
// returned function releases it and flushes telemetry.
func (c *Command) Client(ctx context.Context) (*feishu.Client, func(), error) {
	var opts []config.Option
	if c.flagLogLevel != "" {
		opts = append(opts, config.WithLogLevel(c.flagLogLevel))
	}

	var (
		cfg *config.Config
		err error
	)
	if c.flagConfig != "" {
		cfg, err = config.LoadFile(c.flagConfig, opts...)
	} else {
		cfg, err = config.New(opts...)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	c.Log.SetLevel(logger.HclogLevel(cfg.Level()))
	cfg.Logger = logger.FromHclog(c.Log, cfg.Level())

	provider, err := observability.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing telemetry: %w", err)
	}

	client, err := feishu.New(ctx, cfg, feishu.WithTelemetry(provider))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, fmt.Errorf("error creating client: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			c.Log.Warn("error closing client", "error", err)
		}
		if err := provider.Shutdown(context.Background()); err != nil {
			c.Log.Warn("error shutting down telemetry", "error", err)
		}
	}
	return client, cleanup, nil
}

// Output writes v to the UI as indented JSON and returns an exit code.
func (c *Command) Output(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding output: %v", err))
		return 1
	}
	c.UI.Output(string(data))
	return 0
}

// Errorf reports a failure and returns exit code 1.
func (c *Command) Errorf(format string, args ...any) int {
	c.UI.Error(fmt.Sprintf(format, args...))
	return 1
}

// SplitList splits a comma separated flag value, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseContent reads a JSON message content argument. Anything that is not
// a JSON object is sent as a text message.
func ParseContent(raw string) any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj
	}
	return feishu.TextContent(raw)
}

// OutputEnvelope prints a raw response. A non-zero code exits 1.
func (c *Command) OutputEnvelope(env *feishu.Envelope) int {
	if code := c.Output(env); code != 0 {
		return code
	}
	if !env.OK() {
		c.UI.Warn(fmt.Sprintf("platform returned code %d: %s", env.Code, env.Msg))
		return 1
	}
	return 0
}

// OutputResult prints the value of r, or the raw response when the
// platform reported a failure.
func OutputResult[T any](c *Command, r feishu.Result[T]) int {
	v, ok := r.Get()
	if !ok {
		return c.OutputEnvelope(r.Raw)
	}
	return c.Output(v)
}
