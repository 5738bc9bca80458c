package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/kart-io/feishukit/pkg/errors"
)

// Validate checks the configuration and reports every violation at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.AppID) == "" {
		result = multierror.Append(result, errors.New(errors.ErrMissingCredentials, "app_id is required"))
	}
	if strings.TrimSpace(c.AppSecret) == "" {
		result = multierror.Append(result, errors.New(errors.ErrMissingCredentials, "app_secret is required"))
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result = multierror.Append(result, errors.Newf(errors.ErrInvalidConfig, "base_url %q must be an absolute http(s) URL", c.BaseURL))
		}
	}

	if c.Timeout < 0 {
		result = multierror.Append(result, errors.New(errors.ErrInvalidConfig, "timeout cannot be negative"))
	}

	switch c.TokenCache.Type {
	case "", TokenCacheMemory:
	case TokenCacheRedis:
		if c.TokenCache.RedisAddr == "" {
			result = multierror.Append(result, errors.New(errors.ErrInvalidConfig, "token_cache.redis_addr is required for redis token cache"))
		}
		if c.TokenCache.RedisDB < 0 {
			result = multierror.Append(result, errors.New(errors.ErrInvalidConfig, "token_cache.redis_db cannot be negative"))
		}
	default:
		result = multierror.Append(result, errors.Newf(errors.ErrInvalidConfig, "unsupported token_cache.type %q", c.TokenCache.Type))
	}

	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		result = multierror.Append(result, errors.New(errors.ErrInvalidConfig, "telemetry.otlp_endpoint is required when telemetry is enabled"))
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		result = multierror.Append(result, errors.New(errors.ErrInvalidConfig, fmt.Sprintf("telemetry.sample_rate %v must be within [0,1]", c.Telemetry.SampleRate)))
	}

	return result.ErrorOrNil()
}
