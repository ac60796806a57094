// Package sharded composes independent s3fifo.Cache instances behind
// per-shard locks so a single logical cache can be used concurrently.
// s3fifo.Cache itself is explicitly not safe for concurrent use; this
// package is the external synchronization spec.md allows on top of it.
package sharded

import (
	"sync"

	"github.com/kcache/s3fifo/internal"
	"github.com/kcache/s3fifo/pkg/s3fifo"
)

// Cache distributes keys across a fixed number of independently-locked
// s3fifo.Cache shards, trading one global lock for many narrower ones.
type Cache[K comparable, V any] struct {
	noCopy internal.NoCopy

	shards uint64
	hash   Hasher[K]
	locks  []sync.RWMutex
	caches []*s3fifo.Cache[K, V]
}

// New builds a Cache of the given number of shards, each an
// s3fifo.Cache[K,V] of capacity ceil(totalCapacity/shards). shards and
// totalCapacity must both be >= 1.
func New[K comparable, V any](shards uint64, totalCapacity int, hash Hasher[K]) *Cache[K, V] {
	if shards == 0 {
		panic("sharded: shards must be greater than 0")
	}
	if totalCapacity <= 0 {
		panic("sharded: totalCapacity must be greater than 0")
	}

	perShard := (totalCapacity + int(shards) - 1) / int(shards) // ceil split

	c := &Cache[K, V]{
		shards: shards,
		hash:   hash,
		locks:  make([]sync.RWMutex, shards),
		caches: make([]*s3fifo.Cache[K, V], shards),
	}
	for i := range c.caches {
		c.caches[i] = s3fifo.New[K, V](perShard)
	}
	return c
}

// Shards returns the number of shards the cache was built with.
func (c *Cache[K, V]) Shards() int { return int(c.shards) }

// Capacity returns the sum of every shard's capacity.
func (c *Cache[K, V]) Capacity() int {
	total := 0
	for _, shard := range c.caches {
		total += shard.Capacity()
	}
	return total
}

// Len returns the sum of every shard's live entry count.
func (c *Cache[K, V]) Len() int {
	total := 0
	for i := range c.caches {
		c.locks[i].RLock()
		total += c.caches[i].Len()
		c.locks[i].RUnlock()
	}
	return total
}

// Lookup hashes k to a shard and looks it up under that shard's write lock.
// Lookup still mutates the winning entry's frequency counter, so — like
// the teacher's SafeInMemoryCache.Get — it takes the full lock, not RLock.
func (c *Cache[K, V]) Lookup(k K) (value V, ok bool) {
	i := c.shardFor(k)
	c.locks[i].Lock()
	defer c.locks[i].Unlock()
	return c.caches[i].Lookup(k)
}

// Insert hashes k to a shard and inserts it under that shard's write lock.
func (c *Cache[K, V]) Insert(k K, v V) bool {
	i := c.shardFor(k)
	c.locks[i].Lock()
	defer c.locks[i].Unlock()
	return c.caches[i].Insert(k, v)
}

func (c *Cache[K, V]) shardFor(k K) uint64 {
	return c.hash.shardIndex(k, c.shards)
}
