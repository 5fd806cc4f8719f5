// Package lrucache provides a bounded key/value map with least-recently-used
// eviction. It is the building block for every capacity-limited cache in mdtree.
//
// The cache is NOT thread-safe. It is designed for single-threaded use inside a
// parser or cache facade; callers that share a cache across goroutines must
// synchronize externally.
package lrucache

import "container/list"

// entry is the value stored in the recency list.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is a fixed-capacity map with recency-based eviction.
//
// Get and Set mark the touched key most-recently-used. When an insertion pushes
// the size past capacity, exactly the least-recently-used entry is evicted,
// ties broken by insertion order. Eviction is silent; there is no callback.
// All operations are O(1) amortized.
type Cache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = most recent, back = least recent
}

// New creates a cache with the given capacity.
// A capacity below 1 is treated as 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the value for key and marks it most-recently-used.
// The second return is false if the key is absent; an absent lookup has no
// side effect on recency.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Set stores value under key and marks it most-recently-used.
// Replacing an existing key updates its value in place. Inserting a new key
// past capacity evicts the least-recently-used entry.
func (c *Cache[K, V]) Set(key K, value V) {
	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&entry[K, V]{key: key, value: value})
	c.items[key] = elem

	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// Has reports whether key is present without affecting recency.
func (c *Cache[K, V]) Has(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Len returns the current number of entries.
func (c *Cache[K, V]) Len() int {
	return c.order.Len()
}

// Capacity returns the fixed capacity set at construction.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}

// evictOldest removes the entry at the least-recent end of the recency order.
func (c *Cache[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*entry[K, V]).key)
}
