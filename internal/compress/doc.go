// Package compress implements the block compression used by kmpar's
// persisted formats (model snapshots and columnar frames).
//
// # Block Format
//
// Every block starts with an 8-byte little-endian header:
//
//	[uncompressed size uint32][compressed size uint32][data...]
//
// A compressed size of 0 means the payload is stored raw, which happens for
// Type None and whenever compression does not save at least 10%.
//
// # Algorithms
//
//   - LZ4: fast, good for frames that are loaded on every training run
//   - ZSTD: better ratio, good for snapshot history kept in object storage
package compress
