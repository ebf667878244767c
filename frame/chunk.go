package frame

// Chunk is a contiguous row range [Start, Start+Len) of a frame.
type Chunk struct {
	// Index is the position of the chunk in the frame.
	Index int
	Start int
	Len   int

	cols [][]float64
}

// NumCols returns the number of columns.
func (c Chunk) NumCols() int { return len(c.cols) }

// At returns the cell at column col and chunk-local row.
func (c Chunk) At(col, row int) float64 { return c.cols[col][row] }

func buildChunks(vecs []*Vec, n, chunkRows int) []Chunk {
	if n == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, (n+chunkRows-1)/chunkRows)
	for start := 0; start < n; start += chunkRows {
		end := min(start+chunkRows, n)
		cols := make([][]float64, len(vecs))
		for c, v := range vecs {
			cols[c] = v.data[start:end:end]
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			Len:   end - start,
			cols:  cols,
		})
	}
	return chunks
}
