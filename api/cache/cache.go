/* cache.go
 * In-memory TTL cache used to avoid redundant calls to the match data provider.
 * Expiry is lazy: entries are checked on access and replaced by refetching, with
 * an optional background sweep for memory bounds. Concurrent callers that miss
 * on the same key share a single upstream fetch (singleflight), so at most one
 * request per key is ever in flight.
 * Authors: Zachary Bower
 */

package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key is a composite cache key. Kind partitions the key space so that
// different query shapes (per-game match lists, team histories, live lists)
// can never collide, and Ref identifies the entity or query within that kind.
type Key struct {
	Kind string
	Ref  string
}

func (k Key) String() string {
	return k.Kind + ":" + k.Ref
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe keyed store with per-entry expiry. The clock is
// injected so tests can control time; production callers use New.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[Key]entry[V]
	now     func() time.Time
	group   singleflight.Group
}

// New creates a cache backed by the wall clock.
func New[V any]() *Cache[V] {
	return NewWithClock[V](time.Now)
}

// NewWithClock creates a cache with a caller-supplied clock.
func NewWithClock[V any](now func() time.Time) *Cache[V] {
	return &Cache[V]{
		entries: make(map[Key]entry[V]),
		now:     now,
	}
}

// GetOrFetch returns the live cached value for key if one exists, without
// invoking fetch. Otherwise it invokes fetch, stores the result with a fresh
// timestamp on success and returns it. On fetch failure the error is returned
// and any previous (now expired) entry is left untouched, so the next access
// retries immediately.
//
// Concurrent callers missing on the same key are coalesced: one fetch runs and
// all callers receive its result.
func (c *Cache[V]) GetOrFetch(key Key, ttl time.Duration, fetch func() (V, error)) (V, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A concurrent flight may have stored the value between our miss and
		// this call being scheduled.
		if v, ok := c.get(key); ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.set(key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (c *Cache[V]) get(key Key) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	// An entry is live strictly before expiresAt; a read at exactly
	// creation+ttl refetches.
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) set(key Key, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Stats returns the total and still-live entry counts.
func (c *Cache[V]) Stats() (total, live int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			live++
		}
	}
	return len(c.entries), live
}

// Prune removes expired entries and returns how many were dropped.
func (c *Cache[V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// StartEviction runs a background sweep every interval until ctx is cancelled.
func (c *Cache[V]) StartEviction(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Prune()
			}
		}
	}()
}
