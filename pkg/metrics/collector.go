// Package metrics instruments an s3fifo.Cache from the outside: it never
// touches admission or eviction decisions, only observes them.
package metrics

import "fmt"

// EvictionReason is why an entry stopped being retrievable. The core cache
// exposes no eviction callback (that is explicitly out of scope for it), so
// InstrumentedCache can only infer that *an* eviction happened from the
// cache's length not growing on a successful insert; it has no visibility
// into which internal queue the entry left. EvictionReasonCapacity is
// therefore the only reason this package can attribute in practice, kept as
// an enum rather than a bare counter so a future wrapper with deeper
// visibility (e.g. one built on an exported queue-transition hook) has
// somewhere to report additional reasons without an interface break.
type EvictionReason string

// EvictionReasonCapacity is every eviction this package can observe: an
// insert succeeded but the cache's length did not grow, meaning some other
// entry was pushed out to make room.
const EvictionReasonCapacity EvictionReason = "capacity"

// EvictionReasons lists every reason a PrometheusCollector pre-registers a
// counter series for, so the metric exists (at zero) before it first fires.
var EvictionReasons = []EvictionReason{
	EvictionReasonCapacity,
}

// Collector receives observations from an InstrumentedCache. Implementations
// must be safe for concurrent use.
type Collector interface {
	IncHit()
	IncMiss()
	IncInsertion()
	IncEviction(reason EvictionReason)
	SetLength(n int64)
	SetSizeBytes(bytes int64)
}

// NewCollector builds the Prometheus-backed Collector for a named cache.
// shard is a non-negative shard index under pkg/sharded, or -1 for an
// unsharded cache; it becomes a const label when non-negative.
func NewCollector(name string, shard int, capacity int) Collector {
	labels := map[string]string{"name": name}
	if shard >= 0 {
		labels["shard"] = fmt.Sprintf("%d", shard)
	}
	return NewPrometheusCollector(labels, capacity)
}
