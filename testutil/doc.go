// Package testutil supports the randomized tests and benchmarks of sysarena.
//
//	rng := testutil.NewRNG(seed)
//	sizes := rng.Sizes(32, 1, 64) // allocation sizes in [1, 64]
//	order := rng.Perm(len(addrs)) // free order
//
// The same seed always yields the same sequence, so a failing run can be
// reproduced from the seed alone.
package testutil
