// Package ttlcache is a bounded key/value cache whose entries expire a fixed
// duration after they were stored. Expiry is lazy: an entry is only checked,
// and dropped, when it is read.
package ttlcache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 4096

type entry[V any] struct {
	value    V
	storedAt time.Time
}

type Options struct {
	// Size is the maximum number of entries held before the least recently
	// used one is dropped. Defaults to DefaultSize.
	Size int
	// Now replaces time.Now, mostly for tests.
	Now func() time.Time
}

type Cache[K comparable, V any] struct {
	lru *lru.Cache[K, entry[V]]
	ttl time.Duration
	now func() time.Time
}

func New[K comparable, V any](ttl time.Duration, opts Options) (*Cache[K, V], error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	backing, err := lru.New[K, entry[V]](opts.Size)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		lru: backing,
		ttl: ttl,
		now: opts.Now,
	}, nil
}

// Get returns the value stored under key if it is younger than the TTL.
// An expired entry is removed and reported as absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry and restarting its
// lifetime.
func (c *Cache[K, V]) Set(key K, value V) {
	c.lru.Add(key, entry[V]{value: value, storedAt: c.now()})
}

func (c *Cache[K, V]) Delete(key K) {
	c.lru.Remove(key)
}

// Len counts stored entries, including expired ones that have not been read
// since they expired.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}
