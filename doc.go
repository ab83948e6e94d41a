// Package sysarena provides a fixed-capacity arena allocator over one
// caller-supplied byte buffer.
//
// A Manager partitions the buffer into a bounded table of arenas. Each arena is
// a bump allocator: allocations advance a used counter and are only reclaimed
// all at once, when the arena is freed. The manager never allocates from the Go
// heap on its allocation paths; the buffer and the slot table are both borrowed
// from the caller.
//
// # Quick Start
//
//	buf := make([]byte, 1<<20)          // or sysarena.MapBacking for off-heap memory
//	slots := make([]sysarena.Arena, 16) // at most 16 live arenas
//
//	m, _ := sysarena.New(buf, slots)
//
//	addr, _ := m.Allocate(128)   // bump-allocate from the first arena that fits
//	b, _ := m.Bytes(addr, 128)   // view the bytes
//
//	pool, _ := m.Split(0, 4096)  // dedicate a 4 KiB sub-arena
//	_ = m.Free(pool)             // reclaim that whole sub-arena
//
// # Addresses
//
// Addresses are offsets into the backing buffer (type Addr). Every address
// computation is checked against the buffer bounds, and size arithmetic
// reports overflow instead of wrapping.
//
// # Splitting and Coalescing
//
// Allocate never creates arenas on its own. Split carves a new arena off the
// unused tail of an existing one, consuming an inactive slot. Free reclaims an
// entire arena and then runs Defragment, which merges table-adjacent free
// arenas whose address ranges touch and compacts the table. IsFullyMerged
// reports when everything has coalesced back into one arena.
//
// # Thread Safety
//
// Manager is not safe for concurrent use. Use Locked when a manager must be
// shared between goroutines.
//
// # Observability
//
// WithLogger attaches a slog-based Logger, WithMetricsCollector a
// MetricsCollector (see package promstats for Prometheus), and
// WithMemoryAcquirer a byte budget such as resource.Controller.
package sysarena
