package sysarena

import (
	"fmt"

	"github.com/hupe1980/sysarena/internal/conv"
	"github.com/hupe1980/sysarena/internal/mmap"
)

// Backing is an off-heap buffer obtained from an anonymous memory mapping.
//
// The garbage collector never scans or moves it. The caller owns the Backing
// and must keep it open for the lifetime of every Manager built on Bytes().
type Backing struct {
	region *mmap.Region
}

// MapBacking maps size zero-filled bytes.
func MapBacking(size int) (*Backing, error) {
	r, err := mmap.Anon(size)
	if err != nil {
		return nil, fmt.Errorf("sysarena: map backing: %w", err)
	}
	return &Backing{region: r}, nil
}

// Bytes returns the mapped buffer, or nil after Close.
func (b *Backing) Bytes() []byte {
	return b.region.Bytes()
}

// Size returns the buffer size in bytes.
func (b *Backing) Size() int {
	return b.region.Len()
}

// Prefetch asks the kernel to fault the whole buffer in.
func (b *Backing) Prefetch() error {
	return b.region.Advise(mmap.WillNeed)
}

// Discard hands every page of the buffer back to the kernel. Only call it
// while no allocation is live, e.g. once IsFullyMerged reports true.
func (b *Backing) Discard() error {
	return b.region.Advise(mmap.DontNeed)
}

// DiscardRange hands back the whole pages inside [base, base+n). Pass the
// range of an arena that was just freed, as reported by Manager.Slot; partial
// pages shared with a neighboring arena are kept.
func (b *Backing) DiscardRange(base Addr, n uint64) error {
	off, err := conv.Uint64ToInt(uint64(base))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	size, err := conv.Uint64ToInt(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return b.region.AdviseRange(off, size, mmap.DontNeed)
}

// Close unmaps the buffer. It is idempotent.
func (b *Backing) Close() error {
	return b.region.Close()
}
