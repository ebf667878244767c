package kmeans

import (
	"context"
	"math"

	"github.com/hupe1980/kmpar/frame"
)

// LloydStats holds the per-cluster moments of one Lloyd pass.
//
// Moments are tracked per column over observed cells only, so Counts may be
// smaller than Rows when rows have missing cells.
type LloydStats struct {
	// Means are per-cluster column means.
	Means [][]float64
	// Sigms are per-cluster sums of squared deviations from Means.
	Sigms [][]float64
	// Counts are per-cluster observed cells per column.
	Counts [][]int64
	// Rows is the number of rows assigned to each cluster.
	Rows []int64
	// Sqr is the total squared error against the input centers.
	Sqr float64
}

func newLloydStats(k, d int) *LloydStats {
	s := &LloydStats{
		Means:  make([][]float64, k),
		Sigms:  make([][]float64, k),
		Counts: make([][]int64, k),
		Rows:   make([]int64, k),
	}
	for clu := range k {
		s.Means[clu] = make([]float64, d)
		s.Sigms[clu] = make([]float64, d)
		s.Counts[clu] = make([]int64, d)
	}
	return s
}

// Combine merges o into s with the parallel moment update
//
//	n = n1 + n2, δ = μ2 − μ1, μ = μ1 + δ·n2/n, M = M1 + M2 + δ²·n1·n2/n
//
// applied per cluster and column.
func (s *LloydStats) Combine(o *LloydStats) {
	for clu := range s.Means {
		for col := range s.Means[clu] {
			n1 := float64(s.Counts[clu][col])
			n2 := float64(o.Counts[clu][col])
			n := n1 + n2
			if n == 0 {
				continue
			}
			delta := o.Means[clu][col] - s.Means[clu][col]
			s.Means[clu][col] += delta * (n2 / n)
			s.Sigms[clu][col] += o.Sigms[clu][col] + delta*delta*(n1*n2/n)
			s.Counts[clu][col] += o.Counts[clu][col]
		}
		s.Rows[clu] += o.Rows[clu]
	}
	s.Sqr += o.Sqr
}

// Variances returns Sigms / (count-1). Columns with fewer than two observed
// cells are NaN.
func (s *LloydStats) Variances() [][]float64 {
	out := make([][]float64, len(s.Sigms))
	for clu := range s.Sigms {
		out[clu] = make([]float64, len(s.Sigms[clu]))
		for col, m := range s.Sigms[clu] {
			if n := s.Counts[clu][col]; n >= 2 {
				out[clu][col] = m / float64(n-1)
			} else {
				out[clu][col] = math.NaN()
			}
		}
	}
	return out
}

// Centers returns the updated centers. Columns of a cluster that received
// no observed cell keep the coordinate from prev.
func (s *LloydStats) Centers(prev [][]float64) [][]float64 {
	out := make([][]float64, len(s.Means))
	for clu := range s.Means {
		out[clu] = make([]float64, len(s.Means[clu]))
		for col := range s.Means[clu] {
			if s.Counts[clu][col] > 0 {
				out[clu][col] = s.Means[clu][col]
			} else {
				out[clu][col] = prev[clu][col]
			}
		}
	}
	return out
}

// EmptyClusters returns the number of clusters without rows.
func (s *LloydStats) EmptyClusters() int {
	empty := 0
	for _, r := range s.Rows {
		if r == 0 {
			empty++
		}
	}
	return empty
}

// Lloyd runs one assignment pass against centers and returns the merged
// moments.
func Lloyd(ctx context.Context, env *Env, ds Dataset, centers [][]float64, norm *Normalization) (*LloydStats, error) {
	k, d := len(centers), ds.NumCols()

	parts, err := mapChunks(ctx, env, PassLloyd, ds, func(ch frame.Chunk) *LloydStats {
		s := newLloydStats(k, d)
		x := make([]float64, d)
		clusters := make([]int, ch.Len)
		var cd ClusterDist

		for i := range ch.Len {
			norm.Row(x, ch, i)
			Closest(centers, x, k, &cd)
			s.Sqr += cd.Dist
			if cd.Broken {
				clusters[i] = -1
				continue
			}
			clu := cd.Index
			clusters[i] = clu
			s.Rows[clu]++
			for col, v := range x {
				if !math.IsNaN(v) {
					s.Means[clu][col] += v
					s.Counts[clu][col]++
				}
			}
		}

		for clu := range k {
			for col := range d {
				if n := s.Counts[clu][col]; n > 0 {
					s.Means[clu][col] /= float64(n)
				}
			}
		}

		// Second sweep: deviations from the chunk-local means.
		for i := range ch.Len {
			clu := clusters[i]
			if clu < 0 {
				continue
			}
			norm.Row(x, ch, i)
			for col, v := range x {
				if !math.IsNaN(v) {
					delta := v - s.Means[clu][col]
					s.Sigms[clu][col] += delta * delta
				}
			}
		}
		return s
	})
	if err != nil {
		return nil, err
	}

	if len(parts) == 0 {
		return newLloydStats(k, d), nil
	}
	total := parts[0]
	for _, p := range parts[1:] {
		total.Combine(p)
	}
	return total, nil
}
