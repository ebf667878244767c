package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies the compression algorithm of a block.
type Type uint8

const (
	// None stores blocks uncompressed.
	None Type = 0
	// LZ4 uses LZ4 block compression.
	LZ4 Type = 1
	// ZSTD uses Zstandard compression.
	ZSTD Type = 2
)

// HeaderSize is the size of the block header in bytes.
const HeaderSize = 8

var (
	// ErrShortBlock is returned when a block is smaller than its header claims.
	ErrShortBlock = errors.New("compress: block too small")
	// ErrSizeMismatch is returned when a block decodes to an unexpected size.
	ErrSizeMismatch = errors.New("compress: decompressed size mismatch")
	// ErrTooLarge is returned for payloads that do not fit the 32-bit header.
	ErrTooLarge = errors.New("compress: block exceeds 4GiB")
)

// String returns the name of the algorithm.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compress(%d)", uint8(t))
	}
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool {
	return t <= ZSTD
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode compresses data into a self-describing block.
func Encode(data []byte, t Type) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	var (
		compressed []byte
		err        error
	)
	switch t {
	case LZ4:
		compressed, err = encodeLZ4(data)
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	case None:
	default:
		return nil, fmt.Errorf("compress: unknown type %d", t)
	}
	if err != nil {
		return nil, err
	}

	// Keep the raw bytes unless compression saves at least 10%.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, HeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[HeaderSize:], data)
		return out, nil
	}

	out := make([]byte, HeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[HeaderSize:], compressed)
	return out, nil
}

func encodeLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return buf[:n], nil
}

// BlockLen returns the total encoded length (header included) of the block
// at the start of data.
func BlockLen(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, ErrShortBlock
	}
	raw := binary.LittleEndian.Uint32(data[0:])
	packed := binary.LittleEndian.Uint32(data[4:])
	if packed == 0 {
		return HeaderSize + int(raw), nil
	}
	return HeaderSize + int(packed), nil
}

// Decode decompresses a block produced by Encode with the same Type.
func Decode(data []byte, t Type) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, ErrShortBlock
	}

	raw := binary.LittleEndian.Uint32(data[0:])
	packed := binary.LittleEndian.Uint32(data[4:])

	if packed == 0 {
		if uint64(len(data)) < HeaderSize+uint64(raw) {
			return nil, ErrShortBlock
		}
		return data[HeaderSize : HeaderSize+raw], nil
	}

	if uint64(len(data)) < HeaderSize+uint64(packed) {
		return nil, ErrShortBlock
	}
	payload := data[HeaderSize : HeaderSize+packed]
	out := make([]byte, raw)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != raw {
			return nil, ErrSizeMismatch
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(payload, out[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != raw {
			return nil, ErrSizeMismatch
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("compress: cannot decode %s block", t)
	}
}
