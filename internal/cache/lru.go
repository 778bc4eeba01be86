// Package cache provides caching implementations for the kgraph backend.
// This file implements a bounded in-memory cache with LRU eviction.
package cache

import (
	"container/list"
	"context"
	"sync"

	"go.uber.org/zap"

	appErrors "kgraph-backend/pkg/errors"
)

// LRU is a bounded key/value cache with least-recently-used eviction.
// This implementation is safe for concurrent use and suitable for
// single-instance deployments.
//
// Key Features:
//   - LRU (Least Recently Used) eviction policy
//   - Fixed entry capacity set at construction
//   - Hit rate statistics
//   - Thread-safe operations
//
// Every public method holds the mutex for its entire body, so a batch of
// concurrent Get/Set/Clear calls always resolves to some sequential
// interleaving and never to a torn ordering structure.
type LRU[V any] struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List
	capacity int

	// Statistics
	hits      int64
	misses    int64
	evictions int64

	logger *zap.Logger
}

// entry is a single cached key/value pair stored in the recency list.
type entry[V any] struct {
	key   string
	value V
}

// New creates an LRU cache that retains at most capacity entries.
// A capacity of zero or less is a configuration error.
func New[V any](capacity int, logger *zap.Logger) (*LRU[V], error) {
	if capacity <= 0 {
		return nil, appErrors.NewValidation("cache capacity must be a positive integer")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LRU[V]{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		logger:   logger,
	}, nil
}

// Get retrieves a value from the cache. A hit promotes the entry to
// most-recently-used. A miss is reported through the boolean, never an error.
func (c *LRU[V]) Get(ctx context.Context, key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		c.misses++
		var zero V
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.hits++

	return elem.Value.(*entry[V]).value, true
}

// Set inserts or replaces an entry and marks it most-recently-used.
// Inserting a new key at capacity evicts the least-recently-used entry
// first; replacing an existing key never evicts.
func (c *LRU[V]) Set(ctx context.Context, key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		elem.Value.(*entry[V]).value = value
		c.order.MoveToFront(elem)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})
}

// Clear removes all entries unconditionally.
func (c *LRU[V]) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.items)
	c.items = make(map[string]*list.Element)
	c.order.Init()

	c.logger.Debug("Cleared cache entries",
		zap.Int("count", removed),
	)
}

// Len returns the number of entries currently cached.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Capacity returns the fixed maximum number of entries.
func (c *LRU[V]) Capacity() int {
	return c.capacity
}

// evictOldest removes the least-recently-used entry (must be called with lock held)
func (c *LRU[V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}

	evicted := oldest.Value.(*entry[V])
	c.order.Remove(oldest)
	delete(c.items, evicted.key)
	c.evictions++

	c.logger.Debug("Evicted least-recently-used cache entry",
		zap.String("key", evicted.key),
	)
}

// Stats returns cache statistics
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	hitRate := float64(0)
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   len(c.items),
		Capacity:  c.capacity,
		HitRate:   hitRate,
	}
}

// Stats holds cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	Capacity  int
	HitRate   float64
}
