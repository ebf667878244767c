// Package snapshot persists training progress to a blobstore.BlobStore.
//
// Every snapshot is written as a new immutable version under its
// destination, then the destination's CURRENT pointer is replaced to name it:
//
//	<dest>/model-00000001.snap
//	<dest>/model-00000002.snap
//	<dest>/CURRENT              -> "model-00000002.snap"
//
// Readers only follow CURRENT, so they never observe a partially written
// model. Old versions are removed with Store.Prune.
//
// # Format
//
// A snapshot file is a fixed header (magic, version, compression, codec name
// and CRC32C of the payload) followed by one compressed block holding the
// codec-encoded model. The codec is chosen by name on load.
package snapshot
