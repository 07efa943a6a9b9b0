// Package cache provides the bounded in-memory caches used by the profile
// calculator.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cacher defines the caching interface.
type Cacher[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, val V)
	Len() int
	Purge()
}

// LRU is a size-bounded cache whose entries expire after a fixed TTL.
// It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewLRU creates a cache holding at most size entries. A zero ttl disables
// expiry.
func NewLRU[K comparable, V any](size int, ttl time.Duration) *LRU[K, V] {
	return &LRU[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

func (c *LRU[K, V]) Add(key K, val V) {
	c.lru.Add(key, val)
}

func (c *LRU[K, V]) Len() int {
	return c.lru.Len()
}

func (c *LRU[K, V]) Purge() {
	c.lru.Purge()
}

// Nop never stores anything.
type Nop[K comparable, V any] struct{}

func (Nop[K, V]) Get(K) (V, bool) {
	var zero V
	return zero, false
}

func (Nop[K, V]) Add(K, V) {}

func (Nop[K, V]) Len() int { return 0 }

func (Nop[K, V]) Purge() {}
