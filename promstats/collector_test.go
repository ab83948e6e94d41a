package promstats

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sysarena"
)

func newManager(t *testing.T, opts ...sysarena.Option) *sysarena.Manager {
	t.Helper()
	m, err := sysarena.New(make([]byte, 1024), make([]sysarena.Arena, 4), opts...)
	require.NoError(t, err)
	return m
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := NewCollector(reg, "test")
	m := newManager(t, sysarena.WithMetricsCollector(c))

	_, err := m.Allocate(100)
	require.NoError(t, err)
	_, err = m.Allocate(2000)
	require.Error(t, err)
	pool, err := m.Split(0, 200)
	require.NoError(t, err)
	require.NoError(t, m.Free(pool))
	require.NoError(t, m.Free(0))
	require.Error(t, m.Free(4096))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues(opAllocate)))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.operations.WithLabelValues(opFree)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues(opSplit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(opAllocate, "out_of_memory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(opFree, "not_found")))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.bytes.WithLabelValues(opAllocate)))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.bytes.WithLabelValues(opFree)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.defrags))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.merges))
	assert.Equal(t, 1, testutil.CollectAndCount(c.allocSize))
}

func TestCollector_NilRegisterer(t *testing.T) {
	c := NewCollector(nil, "")
	c.RecordAllocate(8, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues(opAllocate)))
}

func TestRegisterStats(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := newManager(t)
	RegisterStats(reg, "test", m.Stats)

	_, err := m.Allocate(100)
	require.NoError(t, err)
	_, err = m.Split(0, 200)
	require.NoError(t, err)

	expected := `
# HELP test_arena_active_slots Number of active arenas.
# TYPE test_arena_active_slots gauge
test_arena_active_slots 2
# HELP test_arena_largest_free_bytes Largest allocation that can currently succeed.
# TYPE test_arena_largest_free_bytes gauge
test_arena_largest_free_bytes 724
# HELP test_arena_used_bytes Bytes handed out by active arenas.
# TYPE test_arena_used_bytes gauge
test_arena_used_bytes 100
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"test_arena_active_slots", "test_arena_largest_free_bytes", "test_arena_used_bytes")
	require.NoError(t, err)
}
