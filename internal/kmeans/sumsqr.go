package kmeans

import (
	"context"

	"github.com/hupe1980/kmpar/frame"
)

// SumSqr returns the sum over all rows of the squared distance to the
// nearest center.
func SumSqr(ctx context.Context, env *Env, ds Dataset, centers [][]float64, norm *Normalization) (float64, error) {
	d := ds.NumCols()

	parts, err := mapChunks(ctx, env, PassSumSqr, ds, func(ch frame.Chunk) float64 {
		x := make([]float64, d)
		var cd ClusterDist
		sqr := 0.0
		for i := range ch.Len {
			norm.Row(x, ch, i)
			sqr += Closest(centers, x, len(centers), &cd).Dist
		}
		return sqr
	})
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, p := range parts {
		total += p
	}
	return total, nil
}
