// Package cache provides a small size-bounded LRU cache.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a concurrency-safe cache that evicts the least recently used entry
// once it holds more than maxSize entries.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[K]*list.Element
	lru     *list.List

	hits, misses uint64
}

type entry[K comparable, V any] struct {
	key  K
	data V
}

// Stats reports cache effectiveness.
type Stats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

// NewLRU creates a cache holding at most maxSize entries. A maxSize below one
// is treated as one.
func NewLRU[K comparable, V any](maxSize int) *LRU[K, V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRU[K, V]{
		maxSize: maxSize,
		items:   make(map[K]*list.Element),
		lru:     list.New(),
	}
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.lru.MoveToFront(elem)
	return elem.Value.(*entry[K, V]).data, true
}

// Set stores a value, evicting the oldest entry when over capacity.
func (c *LRU[K, V]) Set(key K, data V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).data = data
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(&entry[K, V]{key: key, data: data})
	if c.lru.Len() > c.maxSize {
		c.removeElement(c.lru.Back())
	}
}

// GetOrCompute returns the cached value for key, computing and storing it on a
// miss. compute runs outside the lock.
func (c *LRU[K, V]) GetOrCompute(key K, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Set(key, v)
	return v
}

// Delete removes a key from the cache
func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Purge drops every entry and resets the counters.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.lru.Init()
	c.hits, c.misses = 0, 0
}

func (c *LRU[K, V]) removeElement(elem *list.Element) {
	delete(c.items, elem.Value.(*entry[K, V]).key)
	c.lru.Remove(elem)
}

// Size returns the current number of items in the cache
func (c *LRU[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Size: len(c.items), Hits: c.hits, Misses: c.misses}
}
