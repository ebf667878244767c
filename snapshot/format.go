package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/kmpar/codec"
	"github.com/hupe1980/kmpar/internal/compress"
	"github.com/hupe1980/kmpar/internal/hash"
	"github.com/hupe1980/kmpar/model"
)

const (
	MagicNumber = 0x4e534d4b // "KMSN"
	Version     = 1
)

var (
	// ErrCorrupt is returned when a snapshot fails validation.
	ErrCorrupt = errors.New("snapshot: corrupt")
	// ErrUnknownCodec is returned when the header names an unknown codec.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
)

// fixed part: magic, version, checksum, compression, codec name length
const headerSize = 4 + 4 + 4 + 1 + 1

// Encode serializes m.
func Encode(m *model.Model, c codec.Codec, ct compress.Type) ([]byte, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("snapshot: unknown compression %s", ct)
	}
	name := c.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("snapshot: codec name %q too long", name)
	}

	payload, err := c.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode model: %w", err)
	}
	block, err := compress.Encode(payload, ct)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, headerSize, headerSize+len(name)+len(block))
	binary.LittleEndian.PutUint32(buf[0:], MagicNumber)
	binary.LittleEndian.PutUint32(buf[4:], Version)
	binary.LittleEndian.PutUint32(buf[8:], hash.Sum([]byte(name), block))
	buf[12] = uint8(ct)
	buf[13] = uint8(len(name))
	buf = append(buf, name...)
	return append(buf, block...), nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*model.Model, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is too small for header", ErrCorrupt, len(data))
	}
	if binary.LittleEndian.Uint32(data[0:]) != MagicNumber {
		return nil, fmt.Errorf("%w: invalid magic number", ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	sum := binary.LittleEndian.Uint32(data[8:])
	ct := compress.Type(data[12])
	nameLen := int(data[13])

	if len(data) < headerSize+nameLen {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	rawName := data[headerSize : headerSize+nameLen]
	block := data[headerSize+nameLen:]

	if err := hash.Verify(sum, rawName, block); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	name := string(rawName)
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, uint8(ct))
	}
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	payload, err := compress.Decode(block, ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	m := &model.Model{}
	if err := c.Unmarshal(payload, m); err != nil {
		return nil, fmt.Errorf("%w: decode model: %w", ErrCorrupt, err)
	}
	return m, nil
}
