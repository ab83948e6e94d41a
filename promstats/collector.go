// Package promstats exports sysarena manager metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c := promstats.NewCollector(reg, "myapp")
//	m, _ := sysarena.New(buf, slots, sysarena.WithMetricsCollector(c))
//	promstats.RegisterStats(reg, "myapp", m.Stats) // guard with a Locked if shared
package promstats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/sysarena"
)

const (
	opAllocate = "allocate"
	opFree     = "free"
	opSplit    = "split"
)

// Collector implements sysarena.MetricsCollector on Prometheus metrics.
type Collector struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	allocSize  prometheus.Histogram
	defrags    prometheus.Counter
	merges     prometheus.Counter
}

var _ sysarena.MetricsCollector = (*Collector)(nil)

// NewCollector creates and registers the operation metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	c := &Collector{
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "operations_total",
			Help:      "Total number of arena manager operations.",
		}, []string{"operation"}),
		failures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "operation_failures_total",
			Help:      "Total number of arena manager operations that failed.",
		}, []string{"operation", "reason"}),
		bytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "bytes_total",
			Help:      "Total bytes allocated and reclaimed.",
		}, []string{"operation"}),
		allocSize: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "allocation_size_bytes",
			Help:      "Size of successful allocations.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
		defrags: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "defragment_passes_total",
			Help:      "Total number of defragmentation passes.",
		}),
		merges: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "merges_total",
			Help:      "Total number of arena pairs coalesced.",
		}),
	}

	// Initialize the series so they are exported before the first operation.
	for _, op := range []string{opAllocate, opFree, opSplit} {
		c.operations.WithLabelValues(op)
	}
	c.bytes.WithLabelValues(opAllocate)
	c.bytes.WithLabelValues(opFree)

	return c
}

// RecordAllocate implements sysarena.MetricsCollector.
func (c *Collector) RecordAllocate(size uint64, err error) {
	c.operations.WithLabelValues(opAllocate).Inc()
	if err != nil {
		c.failures.WithLabelValues(opAllocate, sysarena.ErrorKind(err)).Inc()
		return
	}
	c.bytes.WithLabelValues(opAllocate).Add(float64(size))
	c.allocSize.Observe(float64(size))
}

// RecordFree implements sysarena.MetricsCollector.
func (c *Collector) RecordFree(reclaimed uint64, err error) {
	c.operations.WithLabelValues(opFree).Inc()
	if err != nil {
		c.failures.WithLabelValues(opFree, sysarena.ErrorKind(err)).Inc()
		return
	}
	c.bytes.WithLabelValues(opFree).Add(float64(reclaimed))
}

// RecordSplit implements sysarena.MetricsCollector.
func (c *Collector) RecordSplit(_ uint64, err error) {
	c.operations.WithLabelValues(opSplit).Inc()
	if err != nil {
		c.failures.WithLabelValues(opSplit, sysarena.ErrorKind(err)).Inc()
	}
}

// RecordDefragment implements sysarena.MetricsCollector.
func (c *Collector) RecordDefragment(merges int) {
	c.defrags.Inc()
	c.merges.Add(float64(merges))
}
