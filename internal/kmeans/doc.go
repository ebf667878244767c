// Package kmeans implements scalable K-Means (K-Means||) over chunked frames.
//
// Every bulk read happens in one of four data-parallel passes:
//
//   - SumSqr: total squared distance of all rows to the current centers
//   - Sample: D²-weighted oversampling of candidate centers
//   - Lloyd: per-cluster first and second moments plus total error
//   - Assign: per-cluster row bitmaps
//
// Each pass maps over the frame's chunks concurrently and reduces the
// per-chunk results in chunk order, so results are reproducible for a fixed
// seed and chunk layout. Train sequences the passes and only holds O(k·d)
// state between them.
//
// Distances ignore missing (NaN) cells and rescale the partial sum by d/pts,
// where pts is the number of observed cells. A row without observed cells is
// broken: it contributes zero error and is never assigned.
package kmeans
