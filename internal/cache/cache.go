// Package cache provides the compute-once concurrent map behind the
// locator's resolution caches.
//
// Reads go through a sync.Map without locking. A miss takes the key's own
// mutex, re-checks, and only then runs the compute function, so at most one
// computation per key is stored. Computations for different keys never wait
// on each other. Failed computations are not stored and will be retried by
// the next caller.
package cache

import (
	"sync"
	"sync/atomic"
)

// Cache maps keys to lazily computed values. The zero value is not usable;
// create caches with New.
type Cache[K comparable, V any] struct {
	entries sync.Map // map[K]V
	locks   sync.Map // map[K]*sync.Mutex, pending keys only

	stats struct {
		hits     atomic.Int64
		misses   atomic.Int64
		computes atomic.Int64
		failures atomic.Int64
		size     atomic.Int64
	}
}

// Statistics is a point-in-time view of cache activity.
type Statistics struct {
	Hits     int64
	Misses   int64
	Computes int64
	Failures int64
	Size     int64
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{}
}

// GetOrCompute returns the value for key, computing and storing it on a miss.
// compute runs while the key's mutex is held. It may use the cache for
// other keys but must not request key itself.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	// Fast path: no locking.
	if v, ok := c.entries.Load(key); ok {
		c.stats.hits.Add(1)
		return v.(V), nil
	}

	mu := c.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if v, ok := c.entries.Load(key); ok {
		c.stats.hits.Add(1)
		return v.(V), nil
	}

	c.stats.misses.Add(1)
	c.stats.computes.Add(1)

	v, err := compute()
	if err != nil {
		c.stats.failures.Add(1)
		var zero V
		return zero, err
	}

	c.entries.Store(key, v)
	c.stats.size.Add(1)

	// Waiters still holding mu re-check and find the entry.
	c.locks.Delete(key)
	return v, nil
}

func (c *Cache[K, V]) lockFor(key K) *sync.Mutex {
	if mu, ok := c.locks.Load(key); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := c.locks.LoadOrStore(key, new(sync.Mutex))
	return mu.(*sync.Mutex)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Statistics {
	return Statistics{
		Hits:     c.stats.hits.Load(),
		Misses:   c.stats.misses.Load(),
		Computes: c.stats.computes.Load(),
		Failures: c.stats.failures.Load(),
		Size:     c.stats.size.Load(),
	}
}
