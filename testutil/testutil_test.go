package testutil

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Reproducible(t *testing.T) {
	a, b := NewRNG(4711), NewRNG(4711)
	assert.Equal(t, a.Sizes(64, 1, 1<<20), b.Sizes(64, 1, 1<<20))
	assert.Equal(t, a.Perm(32), b.Perm(32))
	assert.Equal(t, int64(4711), a.Seed())

	first := a.Intn(1 << 30)
	a.Reset()
	a.Sizes(64, 1, 1<<20)
	a.Perm(32)
	assert.Equal(t, first, a.Intn(1<<30))
}

func TestRNG_SizeBetween(t *testing.T) {
	g := NewRNG(7)
	for _, s := range g.Sizes(1000, 3, 9) {
		assert.GreaterOrEqual(t, s, uint64(3))
		assert.LessOrEqual(t, s, uint64(9))
	}

	assert.Equal(t, uint64(5), g.SizeBetween(5, 5))
	assert.Equal(t, uint64(5), g.SizeBetween(5, 1))
	g.SizeBetween(0, math.MaxUint64)
}

func TestRNG_Perm(t *testing.T) {
	p := NewRNG(1).Perm(16)
	assert.Len(t, p, 16)

	sorted := slices.Clone(p)
	slices.Sort(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}
}
