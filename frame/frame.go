package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrRaggedColumns is returned when columns differ in length.
	ErrRaggedColumns = errors.New("frame: columns differ in length")
	// ErrColumnOutOfRange is returned when a column index does not exist.
	ErrColumnOutOfRange = errors.New("frame: column out of range")
	// ErrTooManyNames is returned when more names than columns are given.
	ErrTooManyNames = errors.New("frame: more names than columns")
)

// Frame is an immutable table of float64 columns partitioned into chunks.
// It is safe for concurrent use.
type Frame struct {
	vecs      []*Vec
	n         int
	chunkRows int
	chunks    []Chunk
}

// New creates a frame from column-major data. The frame takes ownership of
// cols; callers must not modify them afterwards.
func New(cols [][]float64, optFns ...Option) (*Frame, error) {
	o := applyOptions(optFns)

	if len(o.names) > len(cols) {
		return nil, ErrTooManyNames
	}

	n := 0
	if len(cols) > 0 {
		n = len(cols[0])
	}

	vecs := make([]*Vec, len(cols))
	for c, data := range cols {
		if len(data) != n {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrRaggedColumns, c, len(data), n)
		}
		vecs[c] = newVec(columnName(o.names, c), data)
	}

	return newFrame(vecs, n, o.chunkRows), nil
}

// FromRows creates a frame from row-major data.
func FromRows(rows [][]float64, optFns ...Option) (*Frame, error) {
	d := 0
	if len(rows) > 0 {
		d = len(rows[0])
	}

	cols := make([][]float64, d)
	for c := range cols {
		cols[c] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != d {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedColumns, i, len(row), d)
		}
		for c, x := range row {
			cols[c][i] = x
		}
	}

	return New(cols, optFns...)
}

func newFrame(vecs []*Vec, n, chunkRows int) *Frame {
	return &Frame{
		vecs:      vecs,
		n:         n,
		chunkRows: chunkRows,
		chunks:    buildChunks(vecs, n, chunkRows),
	}
}

func columnName(names []string, c int) string {
	if c < len(names) && names[c] != "" {
		return names[c]
	}
	return fmt.Sprintf("C%d", c+1)
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.n }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.vecs) }

// ChunkRows returns the configured chunk size.
func (f *Frame) ChunkRows() int { return f.chunkRows }

// Names returns the column names.
func (f *Frame) Names() []string {
	names := make([]string, len(f.vecs))
	for c, v := range f.vecs {
		names[c] = v.name
	}
	return names
}

// Vec returns column c.
func (f *Frame) Vec(c int) *Vec { return f.vecs[c] }

// Mean returns the mean of column c.
func (f *Frame) Mean(c int) float64 { return f.vecs[c].mean }

// Sigma returns the standard deviation of column c.
func (f *Frame) Sigma(c int) float64 { return f.vecs[c].sigma }

// Chunks returns the row partitions in order. The slice must not be
// modified.
func (f *Frame) Chunks() []Chunk { return f.chunks }

// Select returns a frame with the given columns in the given order.
// Column data is shared, not copied.
func (f *Frame) Select(cols []int) (*Frame, error) {
	vecs := make([]*Vec, len(cols))
	for i, c := range cols {
		if c < 0 || c >= len(f.vecs) {
			return nil, fmt.Errorf("%w: %d of %d", ErrColumnOutOfRange, c, len(f.vecs))
		}
		vecs[i] = f.vecs[c]
	}
	return newFrame(vecs, f.n, f.chunkRows), nil
}

// Row copies row i into dst and returns it. dst is grown when too short.
func (f *Frame) Row(i int, dst []float64) []float64 {
	if cap(dst) < len(f.vecs) {
		dst = make([]float64, len(f.vecs))
	}
	dst = dst[:len(f.vecs)]
	for c, v := range f.vecs {
		dst[c] = v.data[i]
	}
	return dst
}
