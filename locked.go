package sysarena

import "sync"

// Locked is a mutex-protected wrapper around Manager for concurrent access.
// All operations are serialized; the wrapped Manager must not be used directly
// while a Locked owns it.
type Locked struct {
	mu sync.Mutex
	m  *Manager
}

// NewLocked wraps m.
func NewLocked(m *Manager) *Locked {
	return &Locked{m: m}
}

// Allocate thread-safely allocates size bytes.
func (l *Locked) Allocate(size uint64) (Addr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Allocate(size)
}

// AllocateBytes thread-safely allocates size bytes and returns them as a slice.
func (l *Locked) AllocateBytes(size uint64) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.AllocateBytes(size)
}

// Free thread-safely frees the arena addr belongs to.
func (l *Locked) Free(addr Addr) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Free(addr)
}

// Split thread-safely carves a new arena off the arena at index.
func (l *Locked) Split(index int, size uint64) (Addr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Split(index, size)
}

// Defragment thread-safely runs a coalescing pass.
func (l *Locked) Defragment() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m.Defragment()
}

// IsFullyMerged thread-safely reports whether the table is back to one arena.
func (l *Locked) IsFullyMerged() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.IsFullyMerged()
}

// Stats thread-safely returns a snapshot of manager statistics.
func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Stats()
}

// Do runs fn with exclusive access to the wrapped Manager.
// fn must not retain m after it returns.
func (l *Locked) Do(fn func(m *Manager) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.m)
}
