package kmeans

import "github.com/hupe1980/kmpar/frame"

// Dataset is the read-only view the passes iterate over.
// *frame.Frame implements it.
type Dataset interface {
	NumRows() int
	NumCols() int
	Mean(c int) float64
	Sigma(c int) float64
	Chunks() []frame.Chunk
}

var _ Dataset = (*frame.Frame)(nil)
