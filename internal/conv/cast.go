package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// IntToUint64 converts a length or index to a size.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrOverflow, v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts a size or offset to a slice index.
func Uint64ToInt(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, fmt.Errorf("%w: %d exceeds int", ErrOverflow, v)
	}
	return int(v), nil
}

// Uint64ToInt64 converts a size to the signed byte counts budgets use.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d exceeds int64", ErrOverflow, v)
	}
	return int64(v), nil
}

// AddUint64 returns a+b.
func AddUint64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return sum, nil
}

// Within reports whether [off, off+n) lies inside [0, limit) without
// computing a wrapped end.
func Within(off, n, limit uint64) bool {
	return off <= limit && n <= limit-off
}
