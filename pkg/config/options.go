// Functional options for feishukit configuration
package config

import (
	"fmt"
	"time"

	"github.com/kart-io/feishukit/pkg/logger"
)

// WithApp sets the app ID and secret
func WithApp(appID, appSecret string) Option {
	return func(c *Config) error {
		if appID == "" {
			return fmt.Errorf("app ID cannot be empty")
		}
		if appSecret == "" {
			return fmt.Errorf("app secret cannot be empty")
		}
		c.AppID = appID
		c.AppSecret = appSecret
		return nil
	}
}

// WithBaseURL points the client at a different open platform host
func WithBaseURL(baseURL string) Option {
	return func(c *Config) error {
		c.BaseURL = baseURL
		return nil
	}
}

// WithLark targets the Lark (international) open platform
func WithLark() Option {
	return WithBaseURL(LarkBaseURL)
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 {
			return fmt.Errorf("timeout cannot be negative")
		}
		c.Timeout = timeout
		return nil
	}
}

// WithLogger sets the logger instance
func WithLogger(l logger.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// WithLogLevel sets the log level name
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.LogLevel = level
		return nil
	}
}

// WithRedisTokenCache shares tenant access tokens through redis
func WithRedisTokenCache(addr, password string, db int) Option {
	return func(c *Config) error {
		if addr == "" {
			return fmt.Errorf("redis address cannot be empty")
		}
		c.TokenCache.Type = TokenCacheRedis
		c.TokenCache.RedisAddr = addr
		c.TokenCache.RedisPassword = password
		c.TokenCache.RedisDB = db
		return nil
	}
}

// WithTokenKeyPrefix sets the cache key prefix
func WithTokenKeyPrefix(prefix string) Option {
	return func(c *Config) error {
		c.TokenCache.KeyPrefix = prefix
		return nil
	}
}

// WithTelemetry enables OTLP/HTTP trace export
func WithTelemetry(endpoint string, headers map[string]string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = true
		c.Telemetry.OTLPEndpoint = endpoint
		c.Telemetry.OTLPHeaders = headers
		return nil
	}
}

// WithTestDefaults applies test-friendly defaults
func WithTestDefaults() Option {
	return func(c *Config) error {
		c.Timeout = 5 * time.Second
		c.Logger = logger.Discard
		return nil
	}
}
