// Package mmap maps anonymous, page-aligned memory outside the Go heap.
//
//	r, err := mmap.Anon(1 << 20)
//	if err != nil { ... }
//	defer r.Close()
//
//	buf := r.Bytes() // zero-filled, read-write
//
//	// Drop the whole pages inside a sub-range.
//	_ = r.AdviseRange(4096, 8192, mmap.DontNeed)
//
// Sizes are rounded up to the page size for the mapping itself; Bytes
// still returns exactly the requested length.
//
// On Unix the region comes from mmap(2) with MAP_ANON|MAP_PRIVATE and advice
// goes to madvise(2). On Windows it comes from VirtualAlloc and advice is
// ignored.
//
// Close is idempotent. Nothing may touch Bytes() once Close has returned.
package mmap
