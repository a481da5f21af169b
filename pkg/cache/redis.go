package cache

import (
	"context"
	"errors"
	"time"

	redisclient "github.com/threadline/threadline-backend/pkg/redis"
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DelPattern(ctx context.Context, pattern string) (int, error)
}

// RedisCache stores entries in the shared Redis instance.
type RedisCache struct {
	client redisStore
}

// NewRedisCache wraps the platform Redis client.
func NewRedisCache(client redisStore) (*RedisCache, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key)
	if errors.Is(err, redisclient.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl)
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...)
}

func (c *RedisCache) DelPattern(ctx context.Context, pattern string) error {
	_, err := c.client.DelPattern(ctx, pattern)
	return err
}

// Close is a no-op; the Redis client is owned by the caller.
func (c *RedisCache) Close() error {
	return nil
}
