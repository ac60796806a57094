package metrics

import (
	"github.com/DmitriyVTitov/size"
	"github.com/kcache/s3fifo/pkg/s3fifo"
)

// cache is the narrow surface InstrumentedCache needs from an s3fifo.Cache.
// Declared locally instead of depended on directly so this package stays
// free to wrap anything shaped like one, the way the teacher's
// InMemoryCache interface lets its metrics layer wrap any algorithm.
type cache[K comparable, V any] interface {
	Lookup(key K) (V, bool)
	Insert(key K, value V) bool
	Len() int
	Capacity() int
}

var _ cache[string, int] = (*s3fifo.Cache[string, int])(nil)

// NewInstrumentedCache wraps cache with metrics recorded through collector.
// Every Lookup and Insert call is delegated unchanged; nothing about
// admission or eviction is altered.
func NewInstrumentedCache[K comparable, V any](c cache[K, V], collector Collector) *InstrumentedCache[K, V] {
	ic := &InstrumentedCache[K, V]{cache: c, metrics: collector}
	ic.metrics.SetLength(int64(c.Len()))
	return ic
}

// InstrumentedCache decorates an s3fifo.Cache with Prometheus-observable
// hits, misses, insertions, evictions, length, and estimated size. It holds
// no locks of its own: concurrent use requires the same external
// synchronization the wrapped cache requires (see pkg/sharded).
type InstrumentedCache[K comparable, V any] struct {
	cache   cache[K, V]
	metrics Collector
}

// Lookup delegates to the wrapped cache and records a hit or a miss.
func (c *InstrumentedCache[K, V]) Lookup(key K) (V, bool) {
	value, found := c.cache.Lookup(key)
	if found {
		c.metrics.IncHit()
	} else {
		c.metrics.IncMiss()
	}
	return value, found
}

// Insert delegates to the wrapped cache and records an insertion. If the
// cache's length does not grow despite a successful insert, some other
// entry was pushed out to make room and an eviction is recorded too.
func (c *InstrumentedCache[K, V]) Insert(key K, value V) bool {
	lenBefore := c.cache.Len()
	inserted := c.cache.Insert(key, value)
	lenAfter := c.cache.Len()

	if inserted {
		c.metrics.IncInsertion()
		if lenAfter <= lenBefore {
			c.metrics.IncEviction(EvictionReasonCapacity)
		}
	}

	c.metrics.SetLength(int64(lenAfter))
	c.metrics.SetSizeBytes(int64(size.Of(c.cache)))

	return inserted
}

// Len returns the number of live entries in the wrapped cache.
func (c *InstrumentedCache[K, V]) Len() int { return c.cache.Len() }

// Capacity returns the wrapped cache's configured capacity.
func (c *InstrumentedCache[K, V]) Capacity() int { return c.cache.Capacity() }

// SizeBytes reflects over the wrapped cache to estimate its footprint in
// bytes, including keys and values.
func (c *InstrumentedCache[K, V]) SizeBytes() int64 {
	return int64(size.Of(c.cache))
}
