package mmap

import "errors"

// Advice tells the kernel how a range of the region will be used.
type Advice int

const (
	// Normal drops any earlier advice.
	Normal Advice = iota
	// WillNeed asks the kernel to fault the pages in ahead of use.
	WillNeed
	// DontNeed releases the pages; on Linux they read back as zero.
	DontNeed
)

func (a Advice) String() string {
	switch a {
	case Normal:
		return "normal"
	case WillNeed:
		return "willneed"
	case DontNeed:
		return "dontneed"
	default:
		return "unknown"
	}
}

var (
	// ErrClosed is returned by operations on a closed region.
	ErrClosed = errors.New("mmap: region closed")
	// ErrInvalidSize is returned for non-positive region sizes.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfRange is returned when an advised range leaves the region.
	ErrOutOfRange = errors.New("mmap: range out of bounds")
)
