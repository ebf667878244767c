// Package model defines the clustering model produced by kmpar.
//
// A Model is created before the first pass, mutated only by the driver after a
// pass finishes, and handed to the snapshotter as an independent copy.
//
// # Units
//
// Clusters are always reported in original (denormalized) units. When the
// model was trained with normalization, Means, Sigmas and Muls record the
// per-column parameters so callers can move between both spaces:
//
//	norm := m.Normalize(m.Clusters)   // (x - mean) * mul
//	orig := m.Denormalize(norm)       // x * sigma + mean
//
// # Encoding
//
// Variances of empty or singleton clusters are NaN. The JSON encoding writes
// them as null and reads null back as NaN.
package model
