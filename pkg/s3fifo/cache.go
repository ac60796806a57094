// Package s3fifo implements the S3-FIFO cache admission and eviction policy
// (Yang et al., SOSP '23): a small probation queue, a frequency-gated main
// queue, and a key-only ghost queue that drives promotion decisions.
package s3fifo

import "github.com/kcache/s3fifo/internal"

// Cache is an S3-FIFO cache bounded to a fixed capacity. It is not safe for
// concurrent use; callers sharing a Cache across goroutines must provide
// their own external synchronization (see pkg/sharded for one such wrapper).
type Cache[K comparable, V any] struct {
	noCopy internal.NoCopy

	capacity int
	small    *queue[K]
	main     *queue[K]
	ghost    *ghost[K]
	table    map[K]*entry[K, V]
}

// New creates an S3-FIFO cache of the given capacity. capacity must be >= 1;
// a nonpositive capacity is a programmer error and panics.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		panic("s3fifo: capacity must be greater than 0")
	}

	// S = max(1, floor(C/10)), M = max(1, C-S) per spec.md §3, except at
	// C=1 that formula would claim 2 slots for a 1-slot cache; the teacher
	// (pkg/s3fifo.NewS3FIFOCache) carves out capacity<2 as small-only with
	// no main/ghost queue, which is what's implemented here.
	small := max(capacity/10, 1)
	var main int
	if capacity >= 2 {
		main = capacity - small
		if main <= 0 {
			main = 1
			small = capacity - 1
		}
	}

	return &Cache[K, V]{
		capacity: capacity,
		small:    newQueue[K](small),
		main:     newQueue[K](main),
		ghost:    newGhost[K](main),
		table:    make(map[K]*entry[K, V], capacity),
	}
}

// Capacity returns the configured capacity of the cache.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Len returns the number of live entries currently held by the cache.
func (c *Cache[K, V]) Len() int {
	return len(c.table)
}

// Lookup returns the value stored for k and increments its frequency
// counter, saturating at 3. It never consults or mutates the ghost queue.
func (c *Cache[K, V]) Lookup(k K) (value V, ok bool) {
	e, found := c.table[k]
	if !found {
		var zero V
		return zero, false
	}

	if e.freq < maxFreq {
		e.freq++
	}

	return e.value, true
}

// Insert stores v under k. It returns false without mutating anything if k
// is already present. Otherwise it admits k to the small queue, or directly
// to the main queue if k was recently evicted from small (a ghost hit), and
// returns true.
func (c *Cache[K, V]) Insert(k K, v V) bool {
	if _, ok := c.table[k]; ok {
		return false
	}

	if c.ghost.contains(k) {
		c.admitToMain(k)
	} else {
		c.admitToSmall(k)
	}

	c.table[k] = &entry[K, V]{key: k, value: v, freq: 0}

	return true
}

// admitToSmall appends k to the small queue. A victim evicted by that push
// is either demoted to ghost (freq=0) or promoted to main (freq>0).
func (c *Cache[K, V]) admitToSmall(k K) {
	victim, evicted := c.small.pushOverwrite(k)
	if !evicted {
		return
	}

	e := c.table[victim]
	if e.freq == 0 {
		delete(c.table, victim)
		c.ghost.push(victim)
		return
	}

	e.freq = 0
	c.admitToMain(victim)
}

// admitToMain appends k to the main queue. While the resulting victim has a
// nonzero frequency, it is decremented and reinserted at the tail instead of
// being evicted; this is the loop form of the tail recursion in spec.md
// §4.5.2.
func (c *Cache[K, V]) admitToMain(k K) {
	for {
		victim, evicted := c.main.pushOverwrite(k)
		if !evicted {
			return
		}

		e, live := c.table[victim]
		if !live {
			// The victim is the key being admitted by Insert, which has no
			// entry yet: it goes back to the tail and the scan continues
			// among the pre-existing entries.
			k = victim
			continue
		}
		if e.freq == 0 {
			delete(c.table, victim)
			return
		}

		e.freq--
		k = victim
	}
}
