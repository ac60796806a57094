// Package loadcache adds read-through loading to an s3fifo-backed cache:
// on a miss, a configured chain of loaders is consulted, with concurrent
// misses for the same keys deduplicated via singleflight.
package loadcache

import "github.com/samber/go-singleflightx"

// cache is the narrow surface LoadCache needs. The wrapped cache must
// already be safe for concurrent use — LoadCache only deduplicates loader
// calls, it does not add synchronization of its own. pkg/sharded.Cache (or
// an s3fifo.Cache protected by a caller-held mutex) both satisfy this.
type cache[K comparable, V any] interface {
	Lookup(key K) (V, bool)
	Insert(key K, value V) bool
}

// New builds a LoadCache around cache, consulting loaders in order on a
// miss. Concurrent Get/GetMany calls for overlapping keys share a single
// in-flight call to the loader chain.
func New[K comparable, V any](c cache[K, V], loaders ...Loader[K, V]) *LoadCache[K, V] {
	return &LoadCache[K, V]{
		cache:   c,
		loaders: loaders,
	}
}

// LoadCache wraps a cache with read-through loading.
type LoadCache[K comparable, V any] struct {
	cache   cache[K, V]
	loaders LoaderChain[K, V]
	group   singleflightx.Group[K, V]
}

// Get returns the cached value for key, loading it through the configured
// loader chain on a miss. err is non-nil only if a loader returned one;
// a key genuinely absent from every loader is not an error, found is false.
func (c *LoadCache[K, V]) Get(key K) (value V, found bool, err error) {
	if value, found := c.cache.Lookup(key); found {
		return value, true, nil
	}

	loaded, err := c.loadAndStore([]K{key})
	if err != nil {
		var zero V
		return zero, false, err
	}

	value, found = loaded[key]
	return value, found, nil
}

// GetMany returns every cached value it can for keys, loading the rest
// through the loader chain. missing lists keys no loader could produce.
func (c *LoadCache[K, V]) GetMany(keys []K) (values map[K]V, missing []K, err error) {
	values = make(map[K]V, len(keys))
	var toLoad []K
	for _, key := range keys {
		if value, found := c.cache.Lookup(key); found {
			values[key] = value
		} else {
			toLoad = append(toLoad, key)
		}
	}

	if len(toLoad) == 0 {
		return values, nil, nil
	}

	loaded, err := c.loadAndStore(toLoad)
	if err != nil {
		return nil, nil, err
	}

	for _, key := range toLoad {
		if value, ok := loaded[key]; ok {
			values[key] = value
		} else {
			missing = append(missing, key)
		}
	}

	return values, missing, nil
}

// loadAndStore runs keys through the deduplicated loader chain and inserts
// whatever is found into the cache before returning it.
func (c *LoadCache[K, V]) loadAndStore(keys []K) (map[K]V, error) {
	if len(c.loaders) == 0 {
		return map[K]V{}, nil
	}

	// DoX deduplicates concurrent loads of overlapping key sets: if two
	// goroutines call Get for the same missing key at once, the loader
	// chain runs once and both callers see its result.
	results := c.group.DoX(keys, func(missing []K) (map[K]V, error) {
		found, _, err := c.loaders.run(missing)
		if err != nil {
			return nil, err
		}
		return found, nil
	})

	output := make(map[K]V, len(results))
	for key, result := range results {
		if result.Err != nil {
			return nil, result.Err
		}
		output[key] = result.Value
		c.cache.Insert(key, result.Value)
	}

	return output, nil
}
