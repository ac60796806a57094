// Command example wires an s3fifo cache up the way a real service would:
// sharded for concurrent access, instrumented for Prometheus, and fronted
// by a read-through loader so callers never see a cache miss as anything
// but slightly slower.
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kcache/s3fifo/pkg/loadcache"
	"github.com/kcache/s3fifo/pkg/metrics"
	"github.com/kcache/s3fifo/pkg/sharded"
)

// product stands in for whatever expensive-to-fetch value a real service
// would cache; it only exists so SizeBytes has more than an int to reflect
// over.
type product struct {
	ID    string
	Name  string
	Price int
}

func main() {
	const (
		shards   = 8
		capacity = 10_000
	)

	backing := sharded.New[string, product](shards, capacity, sharded.DefaultHasher[string]())

	collector := metrics.NewPrometheusCollector(prometheus.Labels{"name": "products"}, backing.Capacity())
	prometheus.MustRegister(collector)

	instrumented := metrics.NewInstrumentedCache[string, product](backing, collector)

	db := newFakeProductDatabase()
	cache := loadcache.New[string, product](instrumented, db.Load)

	for _, id := range []string{"p1", "p2", "p1", "missing", "p3", "p1"} {
		start := time.Now()
		value, found, err := cache.Get(id)
		if err != nil {
			log.Printf("load %s: %v", id, err)
			continue
		}
		if !found {
			log.Printf("%s: not found (%s)", id, time.Since(start))
			continue
		}
		log.Printf("%s: %+v (%s)", id, value, time.Since(start))
	}

	http.Handle("/metrics", promhttp.Handler())
	log.Println("serving /metrics on :2112")
	log.Fatal(http.ListenAndServe(":2112", nil))
}

// fakeProductDatabase simulates a slow backing store: every Load call pays
// a fixed latency penalty regardless of how many keys it's asked for,
// which is exactly the cost loadcache's singleflight dedup amortizes away
// under concurrent callers.
type fakeProductDatabase struct {
	rows map[string]product
}

func newFakeProductDatabase() *fakeProductDatabase {
	return &fakeProductDatabase{
		rows: map[string]product{
			"p1": {ID: "p1", Name: "keyboard", Price: 4200},
			"p2": {ID: "p2", Name: "monitor", Price: 18900},
			"p3": {ID: "p3", Name: "mouse", Price: 1500},
		},
	}
}

func (db *fakeProductDatabase) Load(keys []string) (map[string]product, error) {
	time.Sleep(20 * time.Millisecond)

	found := make(map[string]product, len(keys))
	for _, key := range keys {
		if row, ok := db.rows[key]; ok {
			found[key] = row
		}
	}
	return found, nil
}
