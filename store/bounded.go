// Package store provides the capacity-bounded, insertion-ordered record stores used by the services.
package store

import "sync"

// Bounded is a map that remembers insertion order and never holds more than
// its capacity. Inserting a new key into a full store evicts the oldest key.
// Overwriting an existing key keeps its original position.
type Bounded[K comparable, V any] struct {
	mu       sync.RWMutex
	capacity int
	order    []K
	items    map[K]V
	onEvict  func(K, V)
}

// Option configures a Bounded store
type Option[K comparable, V any] func(*Bounded[K, V])

// WithEvictHook registers a callback invoked after an entry is evicted.
// The callback runs with the store lock held and must not call back into the store.
func WithEvictHook[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(b *Bounded[K, V]) {
		b.onEvict = fn
	}
}

// NewBounded creates a store holding at most capacity entries (minimum 1)
func NewBounded[K comparable, V any](capacity int, opts ...Option[K, V]) *Bounded[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	b := &Bounded[K, V]{
		capacity: capacity,
		items:    make(map[K]V),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Put inserts or overwrites key. It reports whether an older entry was evicted.
func (b *Bounded[K, V]) Put(key K, value V) (evicted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.items[key]; exists {
		b.items[key] = value
		return false
	}

	if len(b.order) >= b.capacity {
		b.evictOldestLocked()
		evicted = true
	}

	b.order = append(b.order, key)
	b.items[key] = value
	return evicted
}

// EvictOldest removes the entry inserted first
func (b *Bounded[K, V]) EvictOldest() (K, V, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.evictOldestLocked()
}

func (b *Bounded[K, V]) evictOldestLocked() (K, V, bool) {
	var (
		zeroK K
		zeroV V
	)
	if len(b.order) == 0 {
		return zeroK, zeroV, false
	}

	key := b.order[0]
	value := b.items[key]

	b.order[0] = zeroK
	b.order = b.order[1:]
	delete(b.items, key)

	if b.onEvict != nil {
		b.onEvict(key, value)
	}
	return key, value, true
}

// Get returns the value stored under key
func (b *Bounded[K, V]) Get(key K) (V, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.items[key]
	return v, ok
}

// Len returns the number of stored entries
func (b *Bounded[K, V]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

// Capacity returns the maximum number of entries
func (b *Bounded[K, V]) Capacity() int {
	return b.capacity
}

// Keys returns the keys from oldest to newest
func (b *Bounded[K, V]) Keys() []K {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]K, len(b.order))
	copy(keys, b.order)
	return keys
}

// Values returns the values from oldest to newest
func (b *Bounded[K, V]) Values() []V {
	b.mu.RLock()
	defer b.mu.RUnlock()

	values := make([]V, 0, len(b.order))
	for _, k := range b.order {
		values = append(values, b.items[k])
	}
	return values
}
