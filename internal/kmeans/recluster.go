package kmeans

import (
	"fmt"
	"math/rand"
)

// Initialization selects how the first k centers are chosen.
type Initialization int

const (
	// InitNone picks k random rows.
	InitNone Initialization = iota
	// InitPlusPlus oversamples with K-Means|| and reduces with K-Means++.
	InitPlusPlus
	// InitFurthest oversamples with K-Means|| and reduces furthest-first.
	InitFurthest
)

// String returns the canonical name.
func (i Initialization) String() string {
	switch i {
	case InitNone:
		return "None"
	case InitPlusPlus:
		return "PlusPlus"
	case InitFurthest:
		return "Furthest"
	default:
		return fmt.Sprintf("Initialization(%d)", int(i))
	}
}

// Valid reports whether i is a known mode.
func (i Initialization) Valid() bool {
	return i >= InitNone && i <= InitFurthest
}

// Recluster reduces points to k centers. The first center is always
// points[0].
//
// InitPlusPlus scans points in order and takes the first one whose distance
// to the chosen centers is at least u*sum, drawing a fresh u per point. When
// no point qualifies the furthest one is taken instead. InitFurthest always
// takes the furthest point, ties going to the lowest index.
func Recluster(points [][]float64, k int, rng *rand.Rand, mode Initialization) ([][]float64, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("recluster: no candidates")
	}

	res := make([][]float64, 1, k)
	res[0] = points[0]
	dists := make([]float64, len(points))
	var cd ClusterDist

	for len(res) < k {
		sum := 0.0
		furthest, maxSqr := 0, 0.0
		for i, p := range points {
			dists[i] = MinSqr(res, p, len(res), &cd)
			sum += dists[i]
			if dists[i] > maxSqr {
				furthest, maxSqr = i, dists[i]
			}
		}

		pick := furthest
		switch mode {
		case InitPlusPlus:
			for i, sqr := range dists {
				if sqr >= rng.Float64()*sum {
					pick = i
					break
				}
			}
		case InitFurthest:
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidInitialization, mode)
		}

		res = append(res, points[pick])
	}
	return res, nil
}
