package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/logger"
)

// clearEnv blanks every FEISHU_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAppID, EnvAppSecret, EnvBaseURL, EnvTimeout, EnvLogLevel,
		EnvRedisAddr, EnvRedisPassword, EnvRedisDB, EnvOTLPEndpoint, EnvOTLPInsecure,
	} {
		t.Setenv(key, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := New(WithApp("cli_a", "secret"))
	require.NoError(t, err)

	assert.Equal(t, FeishuBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, TokenCacheMemory, cfg.TokenCache.Type)
	assert.Equal(t, DefaultTokenKeyPrefix, cfg.TokenCache.KeyPrefix)
	assert.Equal(t, logger.Warn, cfg.Level())
	assert.False(t, cfg.UsesRedisTokenCache())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantErrs int
	}{
		{
			name:   "valid",
			config: &Config{AppID: "cli_a", AppSecret: "s", BaseURL: FeishuBaseURL},
		},
		{
			name:     "missing credentials",
			config:   &Config{},
			wantErrs: 2,
		},
		{
			name:     "bad base url and negative timeout",
			config:   &Config{AppID: "a", AppSecret: "s", BaseURL: "open.feishu.cn", Timeout: -time.Second},
			wantErrs: 2,
		},
		{
			name:     "redis without address",
			config:   &Config{AppID: "a", AppSecret: "s", TokenCache: TokenCacheConfig{Type: TokenCacheRedis}},
			wantErrs: 1,
		},
		{
			name:     "unknown cache type",
			config:   &Config{AppID: "a", AppSecret: "s", TokenCache: TokenCacheConfig{Type: "memcached"}},
			wantErrs: 1,
		},
		{
			name:     "telemetry without endpoint",
			config:   &Config{AppID: "a", AppSecret: "s", Telemetry: TelemetryConfig{Enabled: true, SampleRate: 2}},
			wantErrs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErrs == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok, "expected *multierror.Error, got %T", err)
			assert.Len(t, merr.Errors, tt.wantErrs)
			assert.True(t, errors.IsConfigError(err))
		})
	}
}

func TestOptions(t *testing.T) {
	clearEnv(t)

	cfg, err := New(
		WithApp("cli_a", "secret"),
		WithLark(),
		WithTimeout(10*time.Second),
		WithLogLevel("debug"),
		WithRedisTokenCache("localhost:6379", "pw", 2),
		WithTokenKeyPrefix("app:"),
		WithTelemetry("localhost:4318", map[string]string{"x-team": "im"}),
	)
	require.NoError(t, err)

	assert.Equal(t, LarkBaseURL, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, logger.Debug, cfg.Level())
	assert.True(t, cfg.UsesRedisTokenCache())
	assert.Equal(t, "localhost:6379", cfg.TokenCache.RedisAddr)
	assert.Equal(t, 2, cfg.TokenCache.RedisDB)
	assert.Equal(t, "app:", cfg.TokenCache.KeyPrefix)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "im", cfg.Telemetry.OTLPHeaders["x-team"])
}

func TestOptions_Rejected(t *testing.T) {
	clearEnv(t)

	_, err := New(WithApp("", "secret"))
	assert.Error(t, err)

	_, err = New(WithApp("a", "s"), WithTimeout(-1))
	assert.Error(t, err)

	_, err = New(WithApp("a", "s"), WithRedisTokenCache("", "", 0))
	assert.Error(t, err)
}

func TestApplyEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppID, "cli_env")
	t.Setenv(EnvAppSecret, "env_secret")
	t.Setenv(EnvTimeout, "45s")
	t.Setenv(EnvLogLevel, "info")
	t.Setenv(EnvRedisAddr, "redis:6379")
	t.Setenv(EnvRedisDB, "3")
	t.Setenv(EnvOTLPEndpoint, "collector:4318")
	t.Setenv(EnvOTLPInsecure, "yes")

	cfg := LoadFromEnvironment()
	assert.Equal(t, "cli_env", cfg.AppID)
	assert.Equal(t, "env_secret", cfg.AppSecret)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, logger.Info, cfg.Level())
	assert.True(t, cfg.UsesRedisTokenCache())
	assert.Equal(t, 3, cfg.TokenCache.RedisDB)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.Telemetry.Insecure)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvironment_InvalidValuesIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeout, "soon")
	t.Setenv(EnvRedisDB, "-1")

	cfg := LoadFromEnvironment()
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, 0, cfg.TokenCache.RedisDB)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppSecret, "from_env")

	path := filepath.Join(t.TempDir(), "feishu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_id: cli_file
app_secret: from_file
base_url: https://open.larksuite.com
timeout: 12s
log_level: error
token_cache:
  type: redis
  redis_addr: 127.0.0.1:6379
  key_prefix: "bot:"
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "cli_file", cfg.AppID)
	assert.Equal(t, "from_env", cfg.AppSecret, "environment overrides file")
	assert.Equal(t, LarkBaseURL, cfg.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, logger.Error, cfg.Level())
	assert.Equal(t, "bot:", cfg.TokenCache.KeyPrefix)
	assert.True(t, cfg.UsesRedisTokenCache())
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidConfig, errors.GetErrorCode(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_id: [unterminated"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestGetLogger(t *testing.T) {
	cfg := &Config{Logger: logger.Discard}
	assert.Equal(t, logger.Discard, cfg.GetLogger())

	cfg = &Config{LogLevel: "debug"}
	assert.NotNil(t, cfg.GetLogger())
}
