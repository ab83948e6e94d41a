// Package conv holds the checked integer conversions and sums the allocator
// does its address arithmetic with.
//
// Every helper reports ErrOverflow instead of wrapping or truncating, so a
// request can be rejected before any state changes. Casts that are safe by
// construction (say, a counter bounded by the slot table) stay plain casts.
package conv
