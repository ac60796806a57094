package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Collector = (*PrometheusCollector)(nil)
var _ prometheus.Collector = (*PrometheusCollector)(nil)

// PrometheusCollector implements Collector and prometheus.Collector. Counters
// are plain atomics rather than prometheus.Counter so Inc/Add never take a
// lock on the hot path; values are only assembled into prometheus.Metric at
// scrape time, inside Collect.
type PrometheusCollector struct {
	labels prometheus.Labels

	hitCount       int64
	missCount      int64
	insertionCount int64
	evictionCount  map[EvictionReason]*int64

	lengthValue    int64
	sizeBytesValue int64

	settingsCapacity prometheus.Gauge

	hitDesc       *prometheus.Desc
	missDesc      *prometheus.Desc
	insertionDesc *prometheus.Desc
	evictionDesc  *prometheus.Desc
	lengthDesc    *prometheus.Desc
	sizeDesc      *prometheus.Desc
}

// NewPrometheusCollector builds a collector whose series carry labels as
// const labels, plus a "reason" variable label on the eviction counter.
func NewPrometheusCollector(labels prometheus.Labels, capacity int) *PrometheusCollector {
	c := &PrometheusCollector{
		labels:        labels,
		evictionCount: make(map[EvictionReason]*int64, len(EvictionReasons)),
	}

	for _, reason := range EvictionReasons {
		var count int64
		c.evictionCount[reason] = &count
	}

	c.hitDesc = prometheus.NewDesc("s3fifo_hit_total", "Total number of cache hits", nil, labels)
	c.missDesc = prometheus.NewDesc("s3fifo_miss_total", "Total number of cache misses", nil, labels)
	c.insertionDesc = prometheus.NewDesc("s3fifo_insertion_total", "Total number of items inserted", nil, labels)
	c.evictionDesc = prometheus.NewDesc("s3fifo_eviction_total", "Total number of items evicted", []string{"reason"}, labels)
	c.lengthDesc = prometheus.NewDesc("s3fifo_length", "Current number of live entries", nil, labels)
	c.sizeDesc = prometheus.NewDesc("s3fifo_size_bytes", "Estimated size of live entries in bytes", nil, labels)

	c.settingsCapacity = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "s3fifo_settings_capacity",
		Help:        "Configured maximum number of entries",
		ConstLabels: labels,
	})
	c.settingsCapacity.Set(float64(capacity))

	return c
}

func (c *PrometheusCollector) IncHit() { atomic.AddInt64(&c.hitCount, 1) }

func (c *PrometheusCollector) IncMiss() { atomic.AddInt64(&c.missCount, 1) }

func (c *PrometheusCollector) IncInsertion() { atomic.AddInt64(&c.insertionCount, 1) }

func (c *PrometheusCollector) IncEviction(reason EvictionReason) {
	counter, ok := c.evictionCount[reason]
	if !ok {
		var n int64
		counter = &n
		c.evictionCount[reason] = counter
	}
	atomic.AddInt64(counter, 1)
}

func (c *PrometheusCollector) SetLength(n int64) { atomic.StoreInt64(&c.lengthValue, n) }

func (c *PrometheusCollector) SetSizeBytes(bytes int64) { atomic.StoreInt64(&c.sizeBytesValue, bytes) }

// Describe implements prometheus.Collector.
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hitDesc
	ch <- c.missDesc
	ch <- c.insertionDesc
	ch <- c.evictionDesc
	ch <- c.lengthDesc
	ch <- c.sizeDesc
	ch <- c.settingsCapacity.Desc()
}

// Collect implements prometheus.Collector.
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.hitDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&c.hitCount)))
	ch <- prometheus.MustNewConstMetric(c.missDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&c.missCount)))
	ch <- prometheus.MustNewConstMetric(c.insertionDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&c.insertionCount)))
	ch <- prometheus.MustNewConstMetric(c.lengthDesc, prometheus.GaugeValue, float64(atomic.LoadInt64(&c.lengthValue)))
	ch <- prometheus.MustNewConstMetric(c.sizeDesc, prometheus.GaugeValue, float64(atomic.LoadInt64(&c.sizeBytesValue)))

	for reason, counter := range c.evictionCount {
		ch <- prometheus.MustNewConstMetric(c.evictionDesc, prometheus.CounterValue, float64(atomic.LoadInt64(counter)), string(reason))
	}

	c.settingsCapacity.Collect(ch)
}
