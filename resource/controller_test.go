package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Limit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(50))
	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	err := c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.EqualError(t, err, "resource: memory limit exceeded: 20 bytes requested, 90 of 100 in use")
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	require.NoError(t, c.AcquireMemory(20))

	assert.Equal(t, Usage{InUse: 60, Peak: 90, Limit: 100, Rejected: 1}, c.Usage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1<<40))
	c.ReleaseMemory(1 << 39)

	assert.Equal(t, int64(1<<39), c.MemoryUsage())
	assert.Equal(t, int64(1<<40), c.Usage().Peak)
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_NonPositive(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	require.NoError(t, c.AcquireMemory(0))
	require.NoError(t, c.AcquireMemory(-5))
	c.ReleaseMemory(0)
	c.ReleaseMemory(-5)
	assert.Equal(t, Usage{Limit: 10}, c.Usage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
	assert.Equal(t, Usage{}, c.Usage())
}

func TestController_Concurrent(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1000})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if err := c.AcquireMemory(10); err == nil {
					c.ReleaseMemory(10)
				}
			}
		}()
	}
	wg.Wait()

	u := c.Usage()
	assert.Equal(t, int64(0), u.InUse)
	assert.LessOrEqual(t, u.Peak, int64(100))
}
