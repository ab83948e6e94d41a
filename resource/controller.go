// Package resource implements a byte budget that one or more managers draw from.
//
// A Controller counts the bytes handed out by every manager attached to it
// and, when configured with a limit, rejects allocations that would exceed
// it. Acquisition never blocks; a rejected caller frees and retries on its
// own terms.
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 10})
//	m, _ := sysarena.New(buf, slots, sysarena.WithMemoryAcquirer(rc))
//
// All methods are safe for concurrent use, and a nil *Controller accepts
// everything and tracks nothing.
package resource

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrMemoryLimitExceeded is returned when an acquisition would exceed the limit.
var ErrMemoryLimitExceeded = errors.New("resource: memory limit exceeded")

// Config holds the budget settings.
type Config struct {
	// MemoryLimitBytes caps the bytes in use across all attached managers.
	// Zero disables the cap; usage is still tracked.
	MemoryLimitBytes int64
}

// Usage is a snapshot of a Controller.
type Usage struct {
	InUse    int64
	Peak     int64
	Limit    int64 // 0 if unlimited
	Rejected int64 // acquisitions refused so far
}

// Controller enforces a memory budget.
type Controller struct {
	limit int64
	sem   *semaphore.Weighted // nil if unlimited

	inUse    atomic.Int64
	peak     atomic.Int64
	rejected atomic.Int64
}

// NewController creates a Controller for cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{limit: cfg.MemoryLimitBytes}
	if c.limit > 0 {
		c.sem = semaphore.NewWeighted(c.limit)
	}
	return c
}

// AcquireMemory reserves n bytes or fails with ErrMemoryLimitExceeded.
// Non-positive n is accepted and reserves nothing.
func (c *Controller) AcquireMemory(n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.sem != nil && !c.sem.TryAcquire(n) {
		c.rejected.Add(1)
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrMemoryLimitExceeded, n, c.inUse.Load(), c.limit)
	}

	used := c.inUse.Add(n)
	for {
		peak := c.peak.Load()
		if used <= peak || c.peak.CompareAndSwap(peak, used) {
			return nil
		}
	}
}

// ReleaseMemory returns n bytes to the budget.
func (c *Controller) ReleaseMemory(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.sem != nil {
		c.sem.Release(n)
	}
	c.inUse.Add(-n)
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.inUse.Load()
}

// MemoryLimit returns the configured limit, 0 if unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.limit
}

// Usage returns a snapshot of the budget counters.
func (c *Controller) Usage() Usage {
	if c == nil {
		return Usage{}
	}
	return Usage{
		InUse:    c.inUse.Load(),
		Peak:     c.peak.Load(),
		Limit:    c.limit,
		Rejected: c.rejected.Load(),
	}
}
