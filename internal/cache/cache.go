// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Keeps recently viewed list pages so paging back does not refetch them

package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache is a thread-safe TTL map. Expired entries are dropped when read
// and swept on every Set.
type Cache[V any] struct {
	store  sync.Map
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// New creates a cache whose entries live for ttl. A nil logger is silent.
func New[V any](ttl time.Duration, logger *zap.Logger) *Cache[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache[V]{
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Get returns the live value for key
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.store.Load(key)
	if !ok {
		c.logger.Debug("cache.miss", zap.String("key", key))
		return zero, false
	}

	e := val.(entry[V])
	if c.now().After(e.expiresAt) {
		c.store.Delete(key)
		c.logger.Debug("cache.expired", zap.String("key", key))
		return zero, false
	}

	c.logger.Debug("cache.hit", zap.String("key", key))
	return e.data, true
}

// Set stores value under key for the cache TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.sweep()
	c.store.Store(key, entry[V]{data: value, expiresAt: c.now().Add(ttl)})
	c.logger.Debug("cache.set", zap.String("key", key), zap.Duration("ttl", ttl))
}

// Clear removes key
func (c *Cache[V]) Clear(key string) {
	c.store.Delete(key)
}

// Purge removes every entry
func (c *Cache[V]) Purge() {
	c.store.Range(func(key, _ any) bool {
		c.store.Delete(key)
		return true
	})
	c.logger.Debug("cache.purged")
}

// Len counts live entries
func (c *Cache[V]) Len() int {
	n := 0
	now := c.now()
	c.store.Range(func(_, val any) bool {
		if !now.After(val.(entry[V]).expiresAt) {
			n++
		}
		return true
	})
	return n
}

func (c *Cache[V]) sweep() {
	now := c.now()
	c.store.Range(func(key, val any) bool {
		if now.After(val.(entry[V]).expiresAt) {
			c.store.Delete(key)
		}
		return true
	})
}
