// Package cache provides a Redis-backed token cache so that several
// processes running the same app share one tenant access token.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"github.com/redis/go-redis/v9"

	"github.com/kart-io/feishukit/pkg/config"
	"github.com/kart-io/feishukit/pkg/logger"
)

// Client is the subset of redis commands the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache implements larkcore.Cache on top of redis.
type RedisCache struct {
	client Client
	prefix string
	logger logger.Logger
}

var _ larkcore.Cache = (*RedisCache)(nil)

// NewRedisCache dials redis from cfg and checks the connection.
func NewRedisCache(ctx context.Context, cfg config.TokenCacheConfig, log logger.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if log == nil {
		log = logger.Discard
	}
	log.Debug("Redis token cache initialized", "addr", cfg.RedisAddr, "db", cfg.RedisDB)

	return NewWithClient(rdb, cfg.KeyPrefix, log), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client Client, prefix string, log logger.Logger) *RedisCache {
	if log == nil {
		log = logger.Discard
	}
	return &RedisCache{client: client, prefix: prefix, logger: log}
}

// Get returns the cached value, or "" on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	result, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("Redis token cache miss", "key", key)
			return "", nil
		}
		c.logger.Error("Redis GET failed", "key", key, "error", err)
		return "", fmt.Errorf("redis get error: %w", err)
	}

	c.logger.Debug("Redis token cache hit", "key", key)
	return result, nil
}

// Set stores value with the given expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value string, expireTime time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, expireTime).Err(); err != nil {
		c.logger.Error("Redis SET failed", "key", key, "error", err)
		return fmt.Errorf("redis set error: %w", err)
	}

	c.logger.Debug("Redis token cache set", "key", key, "ttl", expireTime)
	return nil
}

// Close releases the redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
