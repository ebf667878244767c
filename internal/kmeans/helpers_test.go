package kmeans

import (
	"testing"

	"github.com/hupe1980/kmpar/frame"
	"github.com/stretchr/testify/require"
)

func mustFrame(t *testing.T, rows [][]float64, chunkRows int) *frame.Frame {
	t.Helper()
	f, err := frame.FromRows(rows, frame.WithChunkRows(chunkRows))
	require.NoError(t, err)
	return f
}

func plainNorm(ds Dataset) *Normalization {
	return NewNormalization(ds, false)
}
