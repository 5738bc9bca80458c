package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvAppID         = "FEISHU_APP_ID"
	EnvAppSecret     = "FEISHU_APP_SECRET"
	EnvBaseURL       = "FEISHU_BASE_URL"
	EnvTimeout       = "FEISHU_TIMEOUT"
	EnvLogLevel      = "FEISHU_LOG_LEVEL"
	EnvRedisAddr     = "FEISHU_REDIS_ADDR"
	EnvRedisPassword = "FEISHU_REDIS_PASSWORD"
	EnvRedisDB       = "FEISHU_REDIS_DB"
	EnvOTLPEndpoint  = "FEISHU_OTLP_ENDPOINT"
	EnvOTLPInsecure  = "FEISHU_OTLP_INSECURE"
)

// ApplyEnvironment overlays FEISHU_* environment variables onto cfg.
// Unset or unparsable variables leave the existing value untouched.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvAppID); v != "" {
		cfg.AppID = v
	}
	if v := os.Getenv(EnvAppSecret); v != "" {
		cfg.AppSecret = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	// A redis address switches the token cache to redis
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.TokenCache.Type = TokenCacheRedis
		cfg.TokenCache.RedisAddr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		cfg.TokenCache.RedisPassword = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			cfg.TokenCache.RedisDB = db
		}
	}

	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv(EnvOTLPInsecure); v != "" {
		cfg.Telemetry.Insecure = parseBoolFromEnv(v)
	}
}

// LoadFromEnvironment creates a defaulted Config from environment variables
// without validating it.
func LoadFromEnvironment() *Config {
	cfg := &Config{}
	ApplyEnvironment(cfg)
	SetDefaults(cfg)
	return cfg
}

func parseBoolFromEnv(str string) bool {
	switch strings.ToLower(str) {
	case "true", "1", "yes", "on", "enabled":
		return true
	default:
		return false
	}
}
