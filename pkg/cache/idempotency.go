package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/threadline/threadline-backend/pkg/redis"
)

const idempotencyNamespace = "tl:idempotency"

// MemoryIdempotencyStore serves idempotency records from a private
// in-process cache when Redis is not configured. It never shares capacity
// with order reads, so cache pressure cannot evict a pending record. Misses
// report redis.Nil like the Redis client does.
type MemoryIdempotencyStore struct {
	cache *MemoryCache
}

// NewMemoryIdempotencyStore starts a store with its own memory cache.
func NewMemoryIdempotencyStore(opts MemoryOptions) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{cache: NewMemoryCache(opts)}
}

// Close stops the store's cache.
func (s *MemoryIdempotencyStore) Close() error {
	return s.cache.Close()
}

func (s *MemoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", redisclient.Nil
	}
	return string(raw), nil
}

func (s *MemoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		raw = []byte(fmt.Sprint(v))
	}
	return s.cache.SetNX(ctx, key, raw, ttl)
}

func (s *MemoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	return s.cache.Del(ctx, keys...)
}

// IdempotencyKey matches the Redis client's key layout.
func (s *MemoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	parts := []string{idempotencyNamespace}
	for _, part := range []string{scope, id} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ":")
}

var _ redisclient.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
