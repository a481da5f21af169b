package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const defaultMaxItems = 10000

// MemoryCache is a bounded in-process TTL cache used when no Redis endpoint
// is configured. Expired entries are removed by the ttlcache cleaner until
// Close; the least recently used entry is evicted at capacity.
type MemoryCache struct {
	items *ttlcache.Cache[string, []byte]

	// serializes SetNX so the check and the write are atomic
	nx        sync.Mutex
	closeOnce sync.Once
}

// MemoryOptions tunes the in-process cache.
type MemoryOptions struct {
	MaxItems int
}

// NewMemoryCache starts a memory cache and its expiry cleaner.
func NewMemoryCache(opts MemoryOptions) *MemoryCache {
	if opts.MaxItems <= 0 {
		opts.MaxItems = defaultMaxItems
	}
	items := ttlcache.New[string, []byte](
		ttlcache.WithCapacity[string, []byte](uint64(opts.MaxItems)),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &MemoryCache{items: items}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return cloneBytes(item.Value()), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.items.Set(key, cloneBytes(value), itemTTL(ttl))
	return nil
}

// SetNX stores value only when key is absent or expired.
func (c *MemoryCache) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	c.nx.Lock()
	defer c.nx.Unlock()
	if item := c.items.Get(key); item != nil && !item.IsExpired() {
		return false, nil
	}
	c.items.Set(key, cloneBytes(value), itemTTL(ttl))
	return true, nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.items.Delete(key)
	}
	return nil
}

// DelPattern removes keys matching a Redis-style glob (*, ?, [...]).
func (c *MemoryCache) DelPattern(_ context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return err
	}
	for _, key := range c.items.Keys() {
		if ok, _ := path.Match(pattern, key); ok {
			c.items.Delete(key)
		}
	}
	return nil
}

// Close stops the expiry cleaner. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(c.items.Stop)
	return nil
}

func itemTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttlcache.NoTTL
	}
	return ttl
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
