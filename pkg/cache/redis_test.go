package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/feishukit/pkg/logger"
)

type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
	failSet error
	closed  bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failSet != nil {
		return redis.NewStatusResult("", f.failSet)
	}
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := NewWithClient(rdb, "feishukit:", logger.Discard)

	require.NoError(t, c.Set(ctx, "tenant_access_token-cli_a", "t-123", 2*time.Hour))
	assert.Equal(t, "t-123", rdb.data["feishukit:tenant_access_token-cli_a"])
	assert.Equal(t, 2*time.Hour, rdb.ttls["feishukit:tenant_access_token-cli_a"])

	got, err := c.Get(ctx, "tenant_access_token-cli_a")
	require.NoError(t, err)
	assert.Equal(t, "t-123", got)
}

func TestRedisCache_MissIsEmpty(t *testing.T) {
	c := NewWithClient(newFakeRedis(), "p:", nil)

	got, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCache_Errors(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.failGet = errors.New("READONLY")
	rdb.failSet = errors.New("OOM")
	c := NewWithClient(rdb, "", logger.Discard)

	_, err := c.Get(ctx, "k")
	assert.ErrorContains(t, err, "READONLY")

	err = c.Set(ctx, "k", "v", time.Minute)
	assert.ErrorContains(t, err, "OOM")
}

func TestRedisCache_Close(t *testing.T) {
	rdb := newFakeRedis()
	require.NoError(t, NewWithClient(rdb, "", nil).Close())
	assert.True(t, rdb.closed)
}
