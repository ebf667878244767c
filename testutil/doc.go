// Package testutil provides testing utilities for kmpar.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic, goroutine-safe RNG and generators for
// clustered datasets.
//
// # Clustered Data
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.GaussianBlobs([][]float64{{0, 0}, {10, 10}}, 100, 0.1)
//	rng.SprinkleNaN(rows, 0.05)
//
// # Ground Truth
//
//	sse := testutil.SSE(rows, centroids)
package testutil
