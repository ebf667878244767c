// Package frame provides the immutable, column-oriented dataset consumed by
// kmpar.
//
// A Frame holds n rows by d float64 columns. NaN marks a missing cell. Each
// column is a Vec with precomputed mean, sigma, min and max over its observed
// cells. Rows are partitioned into fixed-size chunks; the layout depends only
// on the row count and the chunk size, so a chunk's Start is stable across
// runs.
//
// # Building Frames
//
//	f, err := frame.FromRows([][]float64{
//	    {1.0, 2.0},
//	    {1.5, math.NaN()},
//	}, frame.WithNames("x", "y"), frame.WithChunkRows(1024))
//
// # Persistence
//
// Write and Load move frames through any blobstore.BlobStore using a
// checksummed columnar file. Each column is stored as one compressed block.
//
//	err := frame.Write(ctx, store, "frames/points.kmf", f, frame.WithCompression(compress.ZSTD))
//	g, err := frame.Load(ctx, store, "frames/points.kmf")
package frame
