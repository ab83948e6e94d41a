package sysarena

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package promstats for a ready-made adapter).
//
// Collectors are called synchronously from the manager's operations and
// must not call back into the manager.
type MetricsCollector interface {
	// RecordAllocate is called after each allocate operation.
	// size is the requested size, err is nil if successful.
	RecordAllocate(size uint64, err error)

	// RecordFree is called after each free operation.
	// reclaimed is the number of bytes the freed arena had handed out.
	RecordFree(reclaimed uint64, err error)

	// RecordSplit is called after each split operation.
	RecordSplit(size uint64, err error)

	// RecordDefragment is called after each defragmentation pass.
	// merges is the number of slot pairs coalesced.
	RecordDefragment(merges int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(uint64, error) {}
func (NoopMetricsCollector) RecordFree(uint64, error)     {}
func (NoopMetricsCollector) RecordSplit(uint64, error)    {}
func (NoopMetricsCollector) RecordDefragment(int)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocateCount  atomic.Int64
	AllocateErrors atomic.Int64
	AllocateBytes  atomic.Int64
	FreeCount      atomic.Int64
	FreeErrors     atomic.Int64
	FreeBytes      atomic.Int64
	SplitCount     atomic.Int64
	SplitErrors    atomic.Int64
	DefragPasses   atomic.Int64
	Merges         atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(size uint64, err error) {
	b.AllocateCount.Add(1)
	if err != nil {
		b.AllocateErrors.Add(1)
		return
	}
	b.AllocateBytes.Add(int64(size)) //nolint:gosec // sizes are bounded by the backing buffer
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree(reclaimed uint64, err error) {
	b.FreeCount.Add(1)
	if err != nil {
		b.FreeErrors.Add(1)
		return
	}
	b.FreeBytes.Add(int64(reclaimed)) //nolint:gosec // sizes are bounded by the backing buffer
}

// RecordSplit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplit(_ uint64, err error) {
	b.SplitCount.Add(1)
	if err != nil {
		b.SplitErrors.Add(1)
	}
}

// RecordDefragment implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDefragment(merges int) {
	b.DefragPasses.Add(1)
	b.Merges.Add(int64(merges))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocateCount:  b.AllocateCount.Load(),
		AllocateErrors: b.AllocateErrors.Load(),
		AllocateBytes:  b.AllocateBytes.Load(),
		FreeCount:      b.FreeCount.Load(),
		FreeErrors:     b.FreeErrors.Load(),
		FreeBytes:      b.FreeBytes.Load(),
		SplitCount:     b.SplitCount.Load(),
		SplitErrors:    b.SplitErrors.Load(),
		DefragPasses:   b.DefragPasses.Load(),
		Merges:         b.Merges.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocateCount  int64
	AllocateErrors int64
	AllocateBytes  int64
	FreeCount      int64
	FreeErrors     int64
	FreeBytes      int64
	SplitCount     int64
	SplitErrors    int64
	DefragPasses   int64
	Merges         int64
}
