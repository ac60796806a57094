package s3fifo

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkInvariants re-verifies spec.md §3's invariants 1-6 against a cache's
// current state.
func checkInvariants[K comparable, V any](t *testing.T, cache *Cache[K, V]) {
	t.Helper()

	// I1: |entries| <= C
	assert.LessOrEqual(t, len(cache.table), cache.capacity)

	// I2/I3: table domain == small ∪ main, disjoint.
	seen := map[K]string{}
	for i := 0; i < cache.small.len(); i++ {
		k := cache.small.buf[(cache.small.head+i)%len(cache.small.buf)]
		_, ok := cache.table[k]
		assert.True(t, ok, "small queue key %v must be in table", k)
		assert.NotContains(t, seen, k, "key %v must not appear in both queues", k)
		seen[k] = "small"
	}
	for i := 0; i < cache.main.len(); i++ {
		k := cache.main.buf[(cache.main.head+i)%len(cache.main.buf)]
		_, ok := cache.table[k]
		assert.True(t, ok, "main queue key %v must be in table", k)
		assert.NotContains(t, seen, k, "key %v must not appear in both queues", k)
		seen[k] = "main"
	}
	assert.Equal(t, len(cache.table), len(seen), "every table key must be in exactly one queue")

	// I4: ghost ∩ entries == ∅
	for k := range cache.table {
		assert.False(t, cache.ghost.contains(k), "key %v must not be live and ghosted", k)
	}

	// I5: size bounds
	assert.LessOrEqual(t, cache.small.len(), cache.small.capacity())
	assert.LessOrEqual(t, cache.main.len(), cache.main.capacity())
	assert.LessOrEqual(t, cache.ghost.len(), cache.ghost.capacity())

	// I6: freq bounds
	for k, e := range cache.table {
		assert.GreaterOrEqual(t, e.freq, uint8(0))
		assert.LessOrEqual(t, e.freq, maxFreq, "key %v freq out of bounds", k)
	}
}

func TestProperty_RandomSequences(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		capacity := 1 + rng.Intn(20)
		cache := New[int, int](capacity)

		universe := capacity * 3
		for step := 0; step < 500; step++ {
			k := rng.Intn(universe)
			if rng.Intn(2) == 0 {
				cache.Insert(k, step)
			} else {
				cache.Lookup(k)
			}
			checkInvariants(t, cache)
		}
	}
}

func TestProperty_LookupMonotonicity(t *testing.T) {
	t.Parallel()

	cache := New[string, int](10)
	cache.Insert("a", 1)

	var last uint8
	for i := 0; i < 5; i++ {
		cache.Lookup("a")
		next := cache.table["a"].freq
		assert.GreaterOrEqual(t, next, last)
		if last < maxFreq {
			assert.Equal(t, last+1, next)
		} else {
			assert.Equal(t, maxFreq, next)
		}
		last = next
	}
}

func TestProperty_InsertIdempotenceOnPresentKeys(t *testing.T) {
	t.Parallel()

	cache := New[string, int](10)
	cache.Insert("a", 1)
	cache.Lookup("a")

	freqBefore := cache.table["a"].freq
	smallLenBefore := cache.small.len()
	mainLenBefore := cache.main.len()

	ok := cache.Insert("a", 2)

	assert.False(t, ok)
	assert.Equal(t, 1, cache.table["a"].value)
	assert.Equal(t, freqBefore, cache.table["a"].freq)
	assert.Equal(t, smallLenBefore, cache.small.len())
	assert.Equal(t, mainLenBefore, cache.main.len())
}

func TestProperty_InsertTerminatesUnderCascadingMainEviction(t *testing.T) {
	t.Parallel()

	// Build a main queue full of freq>0 entries, then force a cascading
	// reinsertion pass: insert must still terminate and leave the cache
	// within capacity.
	cache := New[string, int](4) // S=1, M=3, G=3

	// Looking each key up right after inserting it gives it freq>0, so the
	// next insert promotes it from small to main instead of demoting it to
	// ghost: a, b and c end up filling main, d stays in small.
	for _, k := range []string{"a", "b", "c", "d"} {
		cache.Insert(k, 0)
		cache.Lookup(k)
	}
	// Bump every live key to freq 3 so admitToMain's decrement loop has work
	// to do once d is pushed out of small.
	for i := 0; i < 3; i++ {
		cache.Lookup("a")
		cache.Lookup("b")
		cache.Lookup("c")
		cache.Lookup("d")
	}

	for i := 0; i < 50; i++ {
		cache.Insert(strconv.Itoa(i+1000), i)
		checkInvariants(t, cache)
	}
}

func TestProperty_AdmissionPath(t *testing.T) {
	t.Parallel()

	cache := New[string, int](10)

	// First insert of a never-seen key admits to small.
	cache.Insert("a", 1)
	assert.Equal(t, 1, cache.small.len())
	assert.Equal(t, 0, cache.main.len())

	// Force "a" out of small into ghost (freq=0 eviction).
	cache.Insert("b", 2)
	assert.True(t, cache.ghost.contains("a"))

	// First insert after a small->ghost demotion admits to main.
	cache.Insert("a", 3)
	assert.Equal(t, 1, cache.main.len())
}
