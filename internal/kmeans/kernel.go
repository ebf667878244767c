package kmeans

import "math"

// ClusterDist is the result of a nearest-center lookup.
type ClusterDist struct {
	Index int
	Dist  float64
	// Broken is set when x has no observed cell.
	Broken bool
}

// Closest finds the nearest of the first count centers to x.
//
// Missing cells of x are skipped and the partial sum is scaled by d/pts.
// Ties resolve to the lowest index. The result is written to cd, which is
// also returned, so callers can reuse one record per task.
func Closest(centers [][]float64, x []float64, count int, cd *ClusterDist) *ClusterDist {
	cd.Index, cd.Dist, cd.Broken = 0, 0, false

	pts := 0
	for _, v := range x {
		if !math.IsNaN(v) {
			pts++
		}
	}
	if pts == 0 {
		cd.Broken = true
		return cd
	}
	scale := float64(len(x)) / float64(pts)

	for r := range count {
		c := centers[r]
		sqr := 0.0
		for col, v := range x {
			if math.IsNaN(v) {
				continue
			}
			delta := v - c[col]
			sqr += delta * delta
		}
		if pts < len(x) {
			sqr *= scale
		}
		if r == 0 || sqr < cd.Dist {
			cd.Index = r
			cd.Dist = sqr
		}
	}
	return cd
}

// MinSqr returns the distance from x to its nearest of the first count
// centers.
func MinSqr(centers [][]float64, x []float64, count int, cd *ClusterDist) float64 {
	return Closest(centers, x, count, cd).Dist
}
