//go:build unix

package mmap

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnon(t *testing.T) {
	r, err := Anon(4096)
	require.NoError(t, err)
	defer r.Close()

	buf := r.Bytes()
	require.Len(t, buf, 4096)
	assert.Equal(t, 4096, r.Len())
	assert.Equal(t, make([]byte, 4096), buf, "anonymous memory starts zeroed")

	buf[0], buf[4095] = 0xAB, 0xCD
	assert.Equal(t, byte(0xAB), r.Bytes()[0])
	assert.Equal(t, byte(0xCD), r.Bytes()[4095])

	require.NoError(t, r.Advise(WillNeed))
	require.NoError(t, r.Advise(Normal))
}

func TestAnon_Rounding(t *testing.T) {
	r, err := Anon(100)
	require.NoError(t, err)
	defer r.Close()

	assert.Len(t, r.Bytes(), 100)
	assert.Equal(t, 100, cap(r.Bytes()))
	assert.Len(t, r.mapped, os.Getpagesize())
}

func TestAnon_InvalidSize(t *testing.T) {
	_, err := Anon(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Anon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestRegion_AdviseRange(t *testing.T) {
	page := os.Getpagesize()
	r, err := Anon(4 * page)
	require.NoError(t, err)
	defer r.Close()

	buf := r.Bytes()
	for i := range buf {
		buf[i] = 0xFF
	}

	// Covers page 1 fully and page 2 partially: only page 1 is dropped.
	require.NoError(t, r.AdviseRange(page-1, 2*page, DontNeed))
	assert.Equal(t, byte(0xFF), buf[page-1])
	assert.Equal(t, byte(0xFF), buf[2*page])
	if runtime.GOOS == "linux" {
		assert.Equal(t, byte(0), buf[page], "MADV_DONTNEED zero-fills private anonymous pages")
	}

	t.Run("smaller than a page", func(t *testing.T) {
		require.NoError(t, r.AdviseRange(10, 20, DontNeed))
		assert.Equal(t, byte(0xFF), buf[10])
	})

	t.Run("out of range", func(t *testing.T) {
		assert.ErrorIs(t, r.AdviseRange(-1, 1, DontNeed), ErrOutOfRange)
		assert.ErrorIs(t, r.AdviseRange(0, 5*page, DontNeed), ErrOutOfRange)
	})
}

func TestRegion_Close(t *testing.T) {
	r, err := Anon(4096)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Advise(WillNeed), ErrClosed)
	assert.ErrorIs(t, r.AdviseRange(0, 1, WillNeed), ErrClosed)
}

func TestAdvice_String(t *testing.T) {
	assert.Equal(t, "dontneed", DontNeed.String())
	assert.Equal(t, "unknown", Advice(42).String())
}
