package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	MagicNumber = 0x31464d4b // "KMF1"
	Version     = 1
)

var (
	// ErrCorrupt is returned when a frame file fails validation.
	ErrCorrupt = errors.New("frame: corrupt file")
	// ErrInvalidMagic is returned for files that are not frame files.
	ErrInvalidMagic = errors.New("frame: invalid magic number")
	// ErrInvalidVersion is returned for unsupported file versions.
	ErrInvalidVersion = errors.New("frame: unsupported version")
)

// FileHeader describes the layout of a frame file.
//
// The body follows the header: for each column a uint16 name length, the
// name, and one compressed block of little-endian float64 cells.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	RowCount    uint64
	NumCols     uint32
	ChunkRows   uint32
	Compression uint8
	_           [7]byte
	Checksum    uint32 // CRC32C of the body
	_           [4]byte
}

// HeaderSize is the encoded size of FileHeader.
const HeaderSize = 4 + 4 + 8 + 4 + 4 + 1 + 7 + 4 + 4

// Encode serializes the header.
func (h *FileHeader) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:], h.Version)
	binary.LittleEndian.PutUint64(buf[8:], h.RowCount)
	binary.LittleEndian.PutUint32(buf[16:], h.NumCols)
	binary.LittleEndian.PutUint32(buf[20:], h.ChunkRows)
	buf[24] = h.Compression
	binary.LittleEndian.PutUint32(buf[32:], h.Checksum)
	return buf
}

// DecodeHeader parses a header from the start of buf.
func DecodeHeader(buf []byte) (*FileHeader, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is too small for header", ErrCorrupt, len(buf))
	}
	h := &FileHeader{}
	h.Magic = binary.LittleEndian.Uint32(buf[0:])
	if h.Magic != MagicNumber {
		return nil, ErrInvalidMagic
	}
	h.Version = binary.LittleEndian.Uint32(buf[4:])
	if h.Version != Version {
		return nil, ErrInvalidVersion
	}
	h.RowCount = binary.LittleEndian.Uint64(buf[8:])
	h.NumCols = binary.LittleEndian.Uint32(buf[16:])
	h.ChunkRows = binary.LittleEndian.Uint32(buf[20:])
	h.Compression = buf[24]
	h.Checksum = binary.LittleEndian.Uint32(buf[32:])
	return h, nil
}
