package kmeans

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kmpar/frame"
	"github.com/hupe1980/kmpar/internal/conv"
)

// Assignment maps every row of a dataset to its nearest center.
type Assignment struct {
	// Clusters holds the row ids assigned to each cluster.
	Clusters []*roaring.Bitmap
	// Broken holds the rows without observed cells.
	Broken *roaring.Bitmap
	// Sqr is the total squared error of the assignment.
	Sqr float64
}

// Counts returns the number of rows per cluster.
func (a *Assignment) Counts() []uint64 {
	counts := make([]uint64, len(a.Clusters))
	for clu, bm := range a.Clusters {
		counts[clu] = bm.GetCardinality()
	}
	return counts
}

// Cluster returns the cluster of row, or -1 when the row is broken or out
// of range.
func (a *Assignment) Cluster(row uint32) int {
	for clu, bm := range a.Clusters {
		if bm.Contains(row) {
			return clu
		}
	}
	return -1
}

// Assign computes the membership of every row. Row ids must fit uint32.
func Assign(ctx context.Context, env *Env, ds Dataset, centers [][]float64, norm *Normalization) (*Assignment, error) {
	k, d := len(centers), ds.NumCols()
	if _, err := conv.IntToUint32(ds.NumRows()); err != nil {
		return nil, fmt.Errorf("assign: %w", err)
	}

	parts, err := mapChunks(ctx, env, PassAssign, ds, func(ch frame.Chunk) *Assignment {
		a := newAssignment(k)
		x := make([]float64, d)
		var cd ClusterDist
		for i := range ch.Len {
			row := uint32(ch.Start + i)
			norm.Row(x, ch, i)
			Closest(centers, x, k, &cd)
			a.Sqr += cd.Dist
			if cd.Broken {
				a.Broken.Add(row)
				continue
			}
			a.Clusters[cd.Index].Add(row)
		}
		return a
	})
	if err != nil {
		return nil, err
	}

	out := newAssignment(k)
	for _, p := range parts {
		for clu, bm := range p.Clusters {
			out.Clusters[clu].Or(bm)
		}
		out.Broken.Or(p.Broken)
		out.Sqr += p.Sqr
	}
	for _, bm := range out.Clusters {
		bm.RunOptimize()
	}
	return out, nil
}

func newAssignment(k int) *Assignment {
	a := &Assignment{
		Clusters: make([]*roaring.Bitmap, k),
		Broken:   roaring.New(),
	}
	for clu := range a.Clusters {
		a.Clusters[clu] = roaring.New()
	}
	return a
}
