package kmeans

import (
	"math"

	"github.com/hupe1980/kmpar/frame"
)

// SigmaThreshold is the smallest column sigma that is scaled. Columns at or
// below it are treated as constant and only shifted.
const SigmaThreshold = 1e-6

// Normalizable reports whether a column with the given sigma is scaled.
func Normalizable(sigma float64) bool {
	return sigma > SigmaThreshold
}

// Normalization maps raw cells into the training space.
// It is read-only once built and shared by all chunk tasks of a pass.
type Normalization struct {
	// Subs and Muls are nil when normalization is disabled.
	Subs []float64
	Muls []float64
	// Fill holds the training-space value that replaces a missing cell when
	// a row becomes a center.
	Fill []float64
}

// NewNormalization derives the parameters from the column statistics of ds.
func NewNormalization(ds Dataset, enabled bool) *Normalization {
	d := ds.NumCols()
	n := &Normalization{Fill: make([]float64, d)}

	if !enabled {
		for c := range d {
			n.Fill[c] = ds.Mean(c)
		}
		return n
	}

	n.Subs = make([]float64, d)
	n.Muls = make([]float64, d)
	for c := range d {
		n.Subs[c] = ds.Mean(c)
		n.Muls[c] = 1
		if sigma := ds.Sigma(c); Normalizable(sigma) {
			n.Muls[c] = 1 / sigma
		}
		// (mean - subs) * muls is zero
	}
	return n
}

// Enabled reports whether rows are normalized.
func (n *Normalization) Enabled() bool {
	return n.Subs != nil
}

// Row fills x with chunk-local row i. Missing cells stay NaN.
func (n *Normalization) Row(x []float64, ch frame.Chunk, i int) {
	for c := range x {
		v := ch.At(c, i)
		if n.Subs != nil && !math.IsNaN(v) {
			v = (v - n.Subs[c]) * n.Muls[c]
		}
		x[c] = v
	}
}

// Impute replaces missing cells of x with the column fill value.
func (n *Normalization) Impute(x []float64) {
	for c, v := range x {
		if math.IsNaN(v) {
			x[c] = n.Fill[c]
		}
	}
}
