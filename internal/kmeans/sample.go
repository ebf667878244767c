package kmeans

import (
	"context"
	"math/rand"
	"slices"

	"github.com/hupe1980/kmpar/frame"
)

// Sample proposes new candidate centers. A row is kept when
// ell*dist > u*sqr with u uniform in [0, 1), so about ell rows are drawn per
// call. Each chunk draws from its own generator seeded with
// seed+chunk.Start. Kept rows are imputed and returned in row order.
func Sample(ctx context.Context, env *Env, ds Dataset, centers [][]float64, norm *Normalization, sqr, ell float64, seed int64) ([][]float64, error) {
	d := ds.NumCols()

	parts, err := mapChunks(ctx, env, PassSample, ds, func(ch frame.Chunk) [][]float64 {
		rng := rand.New(rand.NewSource(seed + int64(ch.Start)))
		x := make([]float64, d)
		var cd ClusterDist
		var sampled [][]float64
		for i := range ch.Len {
			norm.Row(x, ch, i)
			dist := Closest(centers, x, len(centers), &cd).Dist
			if ell*dist > rng.Float64()*sqr {
				p := slices.Clone(x)
				norm.Impute(p)
				sampled = append(sampled, p)
			}
		}
		return sampled
	})
	if err != nil {
		return nil, err
	}

	var out [][]float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}
