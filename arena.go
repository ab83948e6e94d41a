package sysarena

import (
	"fmt"

	"github.com/hupe1980/sysarena/internal/conv"
)

// Addr is a byte offset into a manager's backing buffer.
type Addr uint64

// Arena is a bump allocator over one contiguous range of a borrowed buffer.
//
// The zero value is an inactive empty slot. Arenas are usually owned by a
// Manager's slot table, but an Arena can be used on its own after Init.
// Bytes handed out by Allocate are never reused until FreeAll.
type Arena struct {
	mem        []byte // borrowed backing buffer, not owned
	base       Addr
	capacity   uint64
	used       uint64
	active     bool
	contiguous bool
	reclaimed  bool // released by Free, not owned by any caller
}

// Init makes a an active, empty arena over mem[base:base+capacity].
// It returns ErrInvalidArgument if mem is nil or the range falls outside mem.
// The contiguous flag is left unchanged; the arena is no longer reclaimed.
func (a *Arena) Init(mem []byte, base Addr, capacity uint64) error {
	if mem == nil {
		return fmt.Errorf("%w: nil backing buffer", ErrInvalidArgument)
	}
	size, err := conv.IntToUint64(len(mem))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if !conv.Within(uint64(base), capacity, size) {
		return fmt.Errorf("%w: %d bytes at %d exceed buffer of %d bytes", ErrInvalidArgument, capacity, base, size)
	}

	a.mem = mem
	a.base = base
	a.capacity = capacity
	a.used = 0
	a.active = true
	a.reclaimed = false
	return nil
}

// Reset returns a to the inactive empty template.
func (a *Arena) Reset() {
	*a = Arena{}
}

// Allocate bumps size bytes off the arena and returns their address.
func (a *Arena) Allocate(size uint64) (Addr, error) {
	if size == 0 {
		return 0, ErrInvalidSize
	}
	if !a.active {
		return 0, ErrNotActive
	}
	next, err := conv.AddUint64(a.used, size)
	if err != nil || next > a.capacity {
		return 0, fmt.Errorf("%w: %d of %d bytes left, %d requested", ErrOutOfSpace, a.Remaining(), a.capacity, size)
	}

	addr := a.base + Addr(a.used)
	a.used = next
	return addr, nil
}

// FreeAll reclaims every allocation at once and deactivates the arena.
// The underlying bytes are not touched.
func (a *Arena) FreeAll() {
	a.used = 0
	a.active = false
}

// Base returns the first address of the arena.
func (a *Arena) Base() Addr { return a.base }

// End returns the address one past the arena's last byte.
func (a *Arena) End() Addr { return a.base + Addr(a.capacity) }

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() uint64 { return a.capacity }

// Used returns the number of bytes handed out since the last FreeAll.
func (a *Arena) Used() uint64 { return a.used }

// Remaining returns the unused tail in bytes.
func (a *Arena) Remaining() uint64 { return a.capacity - a.used }

// Active reports whether the arena currently represents a live region.
func (a *Arena) Active() bool { return a.active }

// Contiguous reports whether the arena is a coalescing candidate.
func (a *Arena) Contiguous() bool { return a.contiguous }

// Reclaimed reports whether the region was handed back through Free and has
// not been split or re-initialized since.
func (a *Arena) Reclaimed() bool { return a.reclaimed }

// Contains reports whether addr lies in [base, base+capacity).
func (a *Arena) Contains(addr Addr) bool {
	return a.capacity > 0 && addr >= a.base && addr-a.base < Addr(a.capacity)
}

// Bytes returns a view of n already allocated bytes starting at addr.
// The view is valid as long as the backing buffer is.
func (a *Arena) Bytes(addr Addr, n uint64) ([]byte, error) {
	if n == 0 {
		return nil, ErrInvalidSize
	}
	if !a.active || addr < a.base {
		return nil, ErrNotFound
	}
	end, err := conv.AddUint64(uint64(addr-a.base), n)
	if err != nil || end > a.used {
		return nil, ErrNotFound
	}

	lo, err := conv.Uint64ToInt(uint64(addr))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	hi, err := conv.Uint64ToInt(uint64(a.base) + end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return a.mem[lo:hi:hi], nil
}

func (a *Arena) String() string {
	state := "inactive"
	if a.active {
		state = "active"
	}
	return fmt.Sprintf("Arena{base: %d, capacity: %d, used: %d, %s, contiguous: %t}",
		a.base, a.capacity, a.used, state, a.contiguous)
}
