package frame

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Vec is a single immutable column.
type Vec struct {
	name  string
	data  []float64
	mean  float64
	sigma float64
	min   float64
	max   float64
	naCnt int
}

func newVec(name string, data []float64) *Vec {
	v := &Vec{name: name, data: data}
	v.computeStats()
	return v
}

// computeStats fills mean, sigma, min and max from the observed cells.
// A column without observations has zero statistics.
func (v *Vec) computeStats() {
	observed := make([]float64, 0, len(v.data))
	for _, x := range v.data {
		if !math.IsNaN(x) {
			observed = append(observed, x)
		}
	}
	v.naCnt = len(v.data) - len(observed)

	switch len(observed) {
	case 0:
		return
	case 1:
		v.mean = observed[0]
	default:
		v.mean, v.sigma = stat.MeanStdDev(observed, nil)
	}
	v.min = floats.Min(observed)
	v.max = floats.Max(observed)
}

// Name returns the column name.
func (v *Vec) Name() string { return v.name }

// Len returns the number of rows.
func (v *Vec) Len() int { return len(v.data) }

// At returns the value of row i. Missing cells are NaN.
func (v *Vec) At(i int) float64 { return v.data[i] }

// Mean returns the mean of the observed cells.
func (v *Vec) Mean() float64 { return v.mean }

// Sigma returns the sample standard deviation of the observed cells.
func (v *Vec) Sigma() float64 { return v.sigma }

// Min returns the smallest observed value.
func (v *Vec) Min() float64 { return v.min }

// Max returns the largest observed value.
func (v *Vec) Max() float64 { return v.max }

// NACount returns the number of missing cells.
func (v *Vec) NACount() int { return v.naCnt }
