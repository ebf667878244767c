package frame

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/kmpar/blobstore"
	"github.com/hupe1980/kmpar/internal/compress"
	"github.com/hupe1980/kmpar/internal/conv"
	"github.com/hupe1980/kmpar/internal/hash"
	"github.com/hupe1980/kmpar/resource"
)

// DefaultCompression is the block compression used by Write.
const DefaultCompression = compress.LZ4

type fileOptions struct {
	compression compress.Type
	controller  *resource.Controller
	chunkRows   int
}

// FileOption configures Write and Load.
type FileOption func(*fileOptions)

// WithCompression sets the block compression used by Write.
func WithCompression(t compress.Type) FileOption {
	return func(o *fileOptions) {
		o.compression = t
	}
}

// WithResourceController makes Write and Load draw IO from rc, and makes
// Load reserve the decoded frame size against its memory budget while
// decoding.
func WithResourceController(rc *resource.Controller) FileOption {
	return func(o *fileOptions) {
		o.controller = rc
	}
}

// WithLoadChunkRows overrides the chunk size stored in the file.
func WithLoadChunkRows(n int) FileOption {
	return func(o *fileOptions) {
		if n > 0 {
			o.chunkRows = n
		}
	}
}

func applyFileOptions(optFns []FileOption) fileOptions {
	o := fileOptions{compression: DefaultCompression}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Write stores f under name.
func Write(ctx context.Context, store blobstore.BlobStore, name string, f *Frame, optFns ...FileOption) error {
	o := applyFileOptions(optFns)
	if !o.compression.Valid() {
		return fmt.Errorf("frame: unknown compression %s", o.compression)
	}

	var body []byte
	cell := make([]byte, 0, f.n*8)

	for _, v := range f.vecs {
		if len(v.name) > math.MaxUint16 {
			return fmt.Errorf("frame: column name %q too long", v.name[:32])
		}
		body = binary.LittleEndian.AppendUint16(body, uint16(len(v.name)))
		body = append(body, v.name...)

		cell = cell[:0]
		for _, x := range v.data {
			cell = binary.LittleEndian.AppendUint64(cell, math.Float64bits(x))
		}
		block, err := compress.Encode(cell, o.compression)
		if err != nil {
			return fmt.Errorf("frame: column %s: %w", v.name, err)
		}
		body = append(body, block...)
	}

	chunkRows, err := conv.IntToUint32(f.chunkRows)
	if err != nil {
		return fmt.Errorf("frame: chunk rows: %w", err)
	}

	h := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		RowCount:    uint64(f.n),
		NumCols:     uint32(len(f.vecs)),
		ChunkRows:   chunkRows,
		Compression: uint8(o.compression),
		Checksum:    hash.Sum(body),
	}

	wb, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(resource.NewRateLimitedWriter(ctx, wb, o.controller))
	if err := writeAll(bw, wb, h.Encode(), body); err != nil {
		_ = wb.Abort()
		return err
	}
	return wb.Close()
}

func writeAll(bw *bufio.Writer, wb blobstore.WritableBlob, parts ...[]byte) error {
	for _, p := range parts {
		if _, err := bw.Write(p); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return wb.Sync()
}

// Load reads a frame written by Write.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...FileOption) (*Frame, error) {
	o := applyFileOptions(optFns)

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if err := o.controller.AcquireIO(ctx, int(b.Size())); err != nil {
		return nil, err
	}

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}

	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	body := data[HeaderSize:]
	if err := hash.Verify(h.Checksum, body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	ct := compress.Type(h.Compression)
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, h.Compression)
	}

	n, err := conv.Uint64ToInt(h.RowCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	decoded := int64(n) * int64(h.NumCols) * 8
	if err := o.controller.AcquireMemory(decoded); err != nil {
		return nil, fmt.Errorf("frame %s: %w", name, err)
	}
	defer o.controller.ReleaseMemory(decoded)

	names := make([]string, h.NumCols)
	cols := make([][]float64, h.NumCols)

	for c := range cols {
		if len(body) < 2 {
			return nil, fmt.Errorf("%w: truncated column %d", ErrCorrupt, c)
		}
		nameLen := int(binary.LittleEndian.Uint16(body))
		body = body[2:]
		if len(body) < nameLen {
			return nil, fmt.Errorf("%w: truncated column %d", ErrCorrupt, c)
		}
		names[c] = string(body[:nameLen])
		body = body[nameLen:]

		blockLen, err := compress.BlockLen(body)
		if err != nil || blockLen > len(body) {
			return nil, fmt.Errorf("%w: truncated column %d", ErrCorrupt, c)
		}
		raw, err := compress.Decode(body[:blockLen], ct)
		if err != nil {
			return nil, fmt.Errorf("%w: column %d: %w", ErrCorrupt, c, err)
		}
		body = body[blockLen:]

		if len(raw) != n*8 {
			return nil, fmt.Errorf("%w: column %d has %d bytes, want %d", ErrCorrupt, c, len(raw), n*8)
		}
		col := make([]float64, n)
		for i := range col {
			col[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		cols[c] = col
	}

	chunkRows := int(h.ChunkRows)
	if o.chunkRows > 0 {
		chunkRows = o.chunkRows
	}

	return New(cols, WithNames(names...), WithChunkRows(chunkRows))
}
