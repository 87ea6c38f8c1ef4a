package cache

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is a time-bounded cache. Entries older than the TTL are misses
// and are dropped by Cleanup.
type TTLCache[K comparable, V any] struct {
	ttl   time.Duration
	mu    sync.Mutex
	items map[K]ttlEntry[V]
}

// NewTTLCache panics when ttl is not positive.
func NewTTLCache[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	if ttl <= 0 {
		panic("TTL cache ttl must be positive")
	}
	return &TTLCache[K, V]{ttl: ttl, items: make(map[K]ttlEntry[V])}
}

// TTL returns the configured time to live.
func (c *TTLCache[K, V]) TTL() time.Duration { return c.ttl }

// Get returns the value for key if it was stored no longer than TTL before now.
// A stale entry is removed.
func (c *TTLCache[K, V]) Get(key K, now time.Time) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if now.Sub(e.storedAt) > c.ttl {
		delete(c.items, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, stamped with now.
func (c *TTLCache[K, V]) Put(key K, value V, now time.Time) {
	c.mu.Lock()
	c.items[key] = ttlEntry[V]{value: value, storedAt: now}
	c.mu.Unlock()
}

// Remove deletes key and reports whether it was present.
func (c *TTLCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// Cleanup removes every entry older than TTL at now and returns how many
// were removed.
func (c *TTLCache[K, V]) Cleanup(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.items {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Len counts entries including stale ones not yet cleaned up.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]ttlEntry[V])
	c.mu.Unlock()
}
