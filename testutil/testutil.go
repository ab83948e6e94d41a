package testutil

import (
	"math/rand/v2"
	"sync"
)

// RNG is a seeded random source for reproducible operation sequences.
// It is safe for concurrent use.
type RNG struct {
	mu   sync.Mutex
	seed int64
	r    *rand.Rand
}

// NewRNG returns an RNG whose sequence is fully determined by seed.
func NewRNG(seed int64) *RNG {
	g := &RNG{seed: seed}
	g.Reset()
	return g
}

// Reset rewinds the sequence to its start.
func (g *RNG) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.r = rand.New(rand.NewPCG(uint64(g.seed), 0x5eed)) //nolint:gosec // deterministic test data
}

// Seed returns the seed the RNG was created with, for failure messages.
func (g *RNG) Seed() int64 { return g.seed }

// Intn returns a value in [0, n). It panics if n <= 0.
func (g *RNG) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.IntN(n)
}

// SizeBetween returns a size in [lo, hi]; lo if the range is empty.
func (g *RNG) SizeBetween(lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if hi-lo == ^uint64(0) {
		return g.r.Uint64()
	}
	return lo + g.r.Uint64N(hi-lo+1)
}

// Sizes returns n sizes drawn with SizeBetween.
func (g *RNG) Sizes(n int, lo, hi uint64) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = g.SizeBetween(lo, hi)
	}
	return out
}

// Perm returns a random permutation of [0, n), e.g. a free order.
func (g *RNG) Perm(n int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Perm(n)
}
