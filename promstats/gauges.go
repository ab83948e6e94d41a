package promstats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/sysarena"
)

// RegisterStats registers gauges that read the table state from stats on
// every scrape. stats is called from the scraping goroutine, so a manager
// shared with other goroutines must be read through Locked.Stats.
func RegisterStats(reg prometheus.Registerer, namespace string, stats func() sysarena.Stats) {
	gauge := func(name, help string, value func(sysarena.Stats) float64) {
		promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(stats()) })
	}

	gauge("slots", "Capacity of the arena slot table.",
		func(s sysarena.Stats) float64 { return float64(s.Slots) })
	gauge("active_slots", "Number of active arenas.",
		func(s sysarena.Stats) float64 { return float64(s.ActiveSlots) })
	gauge("reserved_bytes", "Size of the backing buffer.",
		func(s sysarena.Stats) float64 { return float64(s.BytesReserved) })
	gauge("used_bytes", "Bytes handed out by active arenas.",
		func(s sysarena.Stats) float64 { return float64(s.BytesUsed) })
	gauge("free_bytes", "Unused tail bytes across active arenas.",
		func(s sysarena.Stats) float64 { return float64(s.BytesFree) })
	gauge("largest_free_bytes", "Largest allocation that can currently succeed.",
		func(s sysarena.Stats) float64 { return float64(s.LargestFree) })
}
