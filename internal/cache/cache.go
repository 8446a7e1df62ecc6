// Package cache memoizes expensive fetches for a short TTL so UI refreshes
// do not hammer upstream providers. TTLs are tiered by the caller: live
// readings refresh often, full historical pulls are throttled much harder.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a TTL-keyed memoization map. Reads are safe under concurrency;
// write races are benign since all producers for a key compute the same
// semantic value (last writer wins).
type Cache[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]

	// now is swappable for tests
	now func() time.Time
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		items: make(map[string]entry[T]),
		now:   time.Now,
	}
}

// GetOrFetch returns the cached value for key when still valid, otherwise
// invokes producer and stores its result for ttl. A failed producer is not
// cached: the next call retries for real.
func (c *Cache[T]) GetOrFetch(key string, ttl time.Duration, producer func() (T, error)) (T, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := producer()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Put(key, value, ttl)
	return value, nil
}

// Get returns the value for key unless missing or expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores value under key with a fresh expiry.
func (c *Cache[T]) Put(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = entry[T]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate drops a key so the next GetOrFetch produces afresh.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
