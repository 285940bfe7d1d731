// Package cache provides a small TTL lookup cache with single-flight loads.
// Stage-name and category lookups funnel through it so that concurrent
// dashboard requests don't issue redundant adapter queries.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Lookup caches loader results per key for a fixed TTL. Concurrent callers
// missing on the same key share one in-flight load. Expired entries are
// reloaded lazily on the next access. Safe for concurrent use.
type Lookup[V any] struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[V]

	now func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New creates a Lookup whose entries expire after ttl. A non-positive ttl
// means entries never expire until explicitly invalidated.
func New[V any](ttl time.Duration) *Lookup[V] {
	return &Lookup[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// GetOrLoad returns the cached value for key, or runs loader to populate it.
// Exactly one loader executes per key per miss, even under concurrent access;
// losers of the race receive the winner's result. Loader errors are returned
// to every waiter and are never cached.
func (c *Lookup[V]) GetOrLoad(ctx context.Context, key string, loader func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: another flight may have populated the key between the
		// miss above and acquiring the flight.
		if v, ok := c.get(key); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Invalidate drops a single key.
func (c *Lookup[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll drops every entry, e.g. after upstream pipeline configuration
// changes.
func (c *Lookup[V]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

func (c *Lookup[V]) get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Lookup[V]) set(key string, v V) {
	e := entry[V]{value: v}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}
