package loadcache

// Loader loads values for the given keys from whatever backs the cache —
// a database, an RPC, another cache tier. Keys that cannot be found must be
// left out of the returned map; that is not itself an error.
type Loader[K comparable, V any] func(keys []K) (found map[K]V, err error)

// LoaderChain runs loaders in sequence, each one only asked for the keys
// still missing after the ones before it. A later loader's value for a key
// overwrites an earlier loader's.
type LoaderChain[K comparable, V any] []Loader[K, V]

// run executes the chain against missing and returns what was found, what
// is still missing, and the first error encountered. An error aborts the
// whole chain; no partial results are returned in that case.
//
// Each loader is only asked about keys still absent from found, and its
// whole result map (not just the keys it was asked about) is merged in —
// so a loader that reports a key it wasn't explicitly asked for still
// overwrites whatever an earlier loader found for it. The still-missing
// slice for the next loader is then re-derived by filtering against found,
// rather than tracked as a separate set that every loader call mutates.
func (loaders LoaderChain[K, V]) run(missing []K) (found map[K]V, stillMissing []K, err error) {
	found = make(map[K]V, len(missing))
	stillMissing = missing

	for _, loader := range loaders {
		if len(stillMissing) == 0 {
			return found, stillMissing, nil
		}

		results, err := loader(stillMissing)
		if err != nil {
			return nil, nil, err
		}

		for key, value := range results {
			found[key] = value
		}

		stillMissing = without(stillMissing, found)
	}

	return found, stillMissing, nil
}

// without returns the elements of candidates that are not keys of found.
func without[K comparable, V any](candidates []K, found map[K]V) []K {
	rest := candidates[:0:0]
	for _, key := range candidates {
		if _, ok := found[key]; !ok {
			rest = append(rest, key)
		}
	}
	return rest
}
