// Package hash provides the CRC32-Castagnoli checksums that guard persisted
// snapshots and columnar frames against torn or corrupted writes.
//
//	sum := hash.Sum(header, payload)
//	if err := hash.Verify(sum, header, payload); err != nil { ... }
package hash
