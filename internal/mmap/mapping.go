package mmap

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Region is an anonymous read-write mapping.
type Region struct {
	buf    []byte // the requested length, aliases mapped
	mapped []byte // page-rounded, as returned by the OS
	closed atomic.Bool
}

// Anon maps size zero-filled bytes.
func Anon(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	pages := roundUp(size, os.Getpagesize())
	if pages < size {
		return nil, fmt.Errorf("%w: %d overflows page rounding", ErrInvalidSize, size)
	}

	mapped, err := mapAnon(pages)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", pages, err)
	}
	return &Region{buf: mapped[:size:size], mapped: mapped}, nil
}

// Bytes returns the region, or nil after Close.
func (r *Region) Bytes() []byte {
	if r.closed.Load() {
		return nil
	}
	return r.buf
}

// Len returns the requested size of the region.
func (r *Region) Len() int { return len(r.buf) }

// Advise applies advice to the whole region.
func (r *Region) Advise(advice Advice) error {
	if r.closed.Load() {
		return ErrClosed
	}
	return madvise(r.mapped, advice)
}

// AdviseRange applies advice to the whole pages inside [off, off+n).
// Partial pages at either end are left alone, so neighboring data is never
// discarded.
func (r *Region) AdviseRange(off, n int, advice Advice) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if off < 0 || n < 0 || off > len(r.buf) || n > len(r.buf)-off {
		return fmt.Errorf("%w: [%d, %d+%d) of %d", ErrOutOfRange, off, off, n, len(r.buf))
	}

	page := os.Getpagesize()
	start := roundUp(off, page)
	end := (off + n) / page * page
	if off+n == len(r.buf) {
		end = len(r.mapped) // the rounding tail past buf holds no data
	}
	if start >= end {
		return nil
	}
	return madvise(r.mapped[start:end], advice)
}

// Close unmaps the region.
func (r *Region) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return unmap(r.mapped)
}

func roundUp(n, page int) int {
	return (n + page - 1) / page * page
}
