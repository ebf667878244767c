package hash

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// ErrMismatch is returned by Verify when the checksum does not match.
var ErrMismatch = errors.New("checksum mismatch")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Sum returns the CRC32C of the concatenation of parts.
func Sum(parts ...[]byte) uint32 {
	var crc uint32
	for _, p := range parts {
		crc = crc32.Update(crc, castagnoli, p)
	}
	return crc
}

// Verify checks parts against want.
func Verify(want uint32, parts ...[]byte) error {
	if got := Sum(parts...); got != want {
		return fmt.Errorf("%w: got %08x, want %08x", ErrMismatch, got, want)
	}
	return nil
}
