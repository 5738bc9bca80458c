// Package config provides the configuration system for feishukit
package config

import (
	"time"

	"github.com/kart-io/feishukit/pkg/logger"
)

// Platform base URLs.
const (
	FeishuBaseURL = "https://open.feishu.cn"
	LarkBaseURL   = "https://open.larksuite.com"
)

// Token cache backends.
const (
	TokenCacheMemory = "memory"
	TokenCacheRedis  = "redis"
)

// Defaults.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultTokenKeyPrefix = "feishukit:"
	DefaultServiceName    = "feishukit"
)

// Config represents the client configuration
type Config struct {
	// App credentials, forwarded to the Lark SDK
	AppID     string `json:"app_id" yaml:"app_id"`
	AppSecret string `json:"app_secret" yaml:"app_secret"`

	// Connection settings
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	LogLevel string `json:"log_level" yaml:"log_level"`

	TokenCache TokenCacheConfig `json:"token_cache" yaml:"token_cache"`
	Telemetry  TelemetryConfig  `json:"telemetry" yaml:"telemetry"`

	// Instance-level settings
	Logger logger.Logger `json:"-" yaml:"-"`
}

// TokenCacheConfig selects where tenant access tokens are cached
type TokenCacheConfig struct {
	Type          string `json:"type" yaml:"type"`
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `json:"redis_password" yaml:"redis_password"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db"`
	KeyPrefix     string `json:"key_prefix" yaml:"key_prefix"`
}

// TelemetryConfig configures OpenTelemetry export
type TelemetryConfig struct {
	Enabled        bool              `json:"enabled" yaml:"enabled"`
	ServiceName    string            `json:"service_name" yaml:"service_name"`
	ServiceVersion string            `json:"service_version" yaml:"service_version"`
	Environment    string            `json:"environment" yaml:"environment"`
	OTLPEndpoint   string            `json:"otlp_endpoint" yaml:"otlp_endpoint"`
	OTLPHeaders    map[string]string `json:"otlp_headers" yaml:"otlp_headers"`
	Insecure       bool              `json:"insecure" yaml:"insecure"`
	SampleRate     float64           `json:"sample_rate" yaml:"sample_rate"`
}

// Option defines a functional option for configuration
type Option func(*Config) error

// New creates a configuration from defaults, the environment and opts, in
// that order, and validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}
	ApplyEnvironment(cfg)
	return Build(cfg, opts...)
}

// Build applies opts to cfg, fills defaults and validates.
func Build(cfg *Config, opts ...Option) (*Config, error) {
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills unset fields with default values
func SetDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = FeishuBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = logger.Warn.String()
	}
	if cfg.TokenCache.Type == "" {
		cfg.TokenCache.Type = TokenCacheMemory
	}
	if cfg.TokenCache.KeyPrefix == "" {
		cfg.TokenCache.KeyPrefix = DefaultTokenKeyPrefix
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = DefaultServiceName
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
}

// Level returns the parsed log level
func (c *Config) Level() logger.LogLevel {
	return logger.ParseLevel(c.LogLevel)
}

// GetLogger returns the configured logger, or a stderr logger at Level().
func (c *Config) GetLogger() logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.NewWithLevel(c.Level())
}

// UsesRedisTokenCache reports whether tokens are shared through redis
func (c *Config) UsesRedisTokenCache() bool {
	return c.TokenCache.Type == TokenCacheRedis
}
