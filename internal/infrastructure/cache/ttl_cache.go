package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt  time.Time
}

// TTLCache keeps values for a fixed ttl. Callers pass the clock so expiry
// is decided at read time.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[V]
}

func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

func (c *TTLCache[V]) Get(key string, now time.Time) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.ttl <= 0 || !now.Before(e.storedAt.Add(c.ttl)) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[V]) Put(key string, value V, now time.Time) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, storedAt: now}
	c.mu.Unlock()
}

func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
