// Package cachex provides generic cache shapes a host can use to memoize
// CLIF lazy-stats lookups, adapted from the teacher's utils package of the
// same shape.
package cachex

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2"
)

type Cache[K comparable, T any] interface {
	Get(key K) (value T, ok bool)
	Set(key K, value T)
	Delete(key K)
	Clear()
	Stats() (hits, misses uint64)
}

// LRU is a fixed-capacity, concurrency-safe cache backed by
// hashicorp/golang-lru. Clear atomically swaps in a fresh empty cache so
// concurrent Get/Set calls never observe a half-cleared map.
type LRU[K comparable, T any] struct {
	values       atomic.Pointer[lru.Cache[K, T]]
	hits, misses atomic.Uint64
	size         int
}

func NewLRU[K comparable, T any](size int) *LRU[K, T] {
	c := &LRU[K, T]{size: size}
	c.Clear()
	return c
}

func (c *LRU[K, T]) Get(key K) (value T, ok bool) {
	if value, ok = c.values.Load().Get(key); ok {
		c.hits.Add(1)
		return value, true
	}
	c.misses.Add(1)
	return value, false
}

func (c *LRU[K, T]) Set(key K, value T) {
	c.values.Load().Add(key, value)
}

func (c *LRU[K, T]) Delete(key K) {
	c.values.Load().Remove(key)
}

func (c *LRU[K, T]) Clear() {
	cache, err := lru.New[K, T](c.size)
	if err != nil {
		panic(err)
	}
	c.values.Store(cache)
}

func (c *LRU[K, T]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Map is a plain mutex-guarded cache, useful in tests or for small,
// slow-changing key sets where an LRU's eviction policy buys nothing.
type Map[K comparable, T any] struct {
	lock         sync.RWMutex
	values       map[K]T
	hits, misses atomic.Uint64
	size         int
}

func NewMap[K comparable, T any](preAllocateSize int) *Map[K, T] {
	return &Map[K, T]{values: make(map[K]T, preAllocateSize), size: preAllocateSize}
}

func (m *Map[K, T]) Get(key K) (value T, ok bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	value, ok = m.values[key]
	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return value, ok
}

func (m *Map[K, T]) Set(key K, value T) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.values[key] = value
}

func (m *Map[K, T]) Delete(key K) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.values, key)
}

func (m *Map[K, T]) Clear() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.values = make(map[K]T, m.size)
}

func (m *Map[K, T]) Stats() (hits, misses uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.hits.Load(), m.misses.Load()
}

// Nil is a no-op cache, useful to disable memoization without branching at
// every call site.
type Nil[K comparable, T any] struct{}

func NewNil[K comparable, T any]() Nil[K, T] { return Nil[K, T]{} }

func (Nil[K, T]) Get(key K) (value T, ok bool) { return value, false }
func (Nil[K, T]) Set(key K, value T)           {}
func (Nil[K, T]) Delete(key K)                 {}
func (Nil[K, T]) Clear()                       {}
func (Nil[K, T]) Stats() (hits, misses uint64) { return 0, 0 }
