package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformRows generates n rows of d values in [minVal, maxVal).
// Uses a single backing array for efficiency.
func (r *RNG) UniformRows(n, d int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, n*d)
	rows := make([][]float64, n)
	span := maxVal - minVal

	for i := range n {
		row := data[i*d : (i+1)*d : (i+1)*d]
		for j := range row {
			row[j] = minVal + r.rand.Float64()*span
		}
		rows[i] = row
	}

	return rows
}

// GaussianBlobs generates perCenter rows around each center with isotropic
// Gaussian noise of the given sigma. Rows are grouped by center in order.
func (r *RNG) GaussianBlobs(centers [][]float64, perCenter int, sigma float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([][]float64, 0, len(centers)*perCenter)
	for _, c := range centers {
		for range perCenter {
			row := make([]float64, len(c))
			for j := range row {
				row[j] = c[j] + r.rand.NormFloat64()*sigma
			}
			rows = append(rows, row)
		}
	}

	return rows
}

// Shuffle permutes rows in place.
func (r *RNG) Shuffle(rows [][]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})
}

// SprinkleNaN replaces cells with NaN with probability rate. At least one
// cell of every row stays observed.
func (r *RNG) SprinkleNaN(rows [][]float64, rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		keep := r.rand.Intn(len(row))
		for j := range row {
			if j != keep && r.rand.Float64() < rate {
				row[j] = math.NaN()
			}
		}
	}
}

// Repeat returns each point repeated n times, grouped by point.
func Repeat(points [][]float64, n int) [][]float64 {
	rows := make([][]float64, 0, len(points)*n)
	for _, p := range points {
		for range n {
			rows = append(rows, append([]float64(nil), p...))
		}
	}
	return rows
}

// SSE returns the sum of squared distances of rows to their nearest
// centroid, ignoring NaN cells.
func SSE(rows, centroids [][]float64) float64 {
	total := 0.0
	for _, row := range rows {
		best := math.Inf(1)
		for _, c := range centroids {
			d := 0.0
			for j, v := range row {
				if !math.IsNaN(v) {
					d += (v - c[j]) * (v - c[j])
				}
			}
			best = math.Min(best, d)
		}
		total += best
	}
	return total
}

// Nearest returns the index of the centroid closest to p, or -1 when
// centroids is empty.
func Nearest(centroids [][]float64, p []float64) int {
	best, idx := math.Inf(1), -1
	for i, c := range centroids {
		d := 0.0
		for j := range p {
			d += (p[j] - c[j]) * (p[j] - c[j])
		}
		if d < best {
			best, idx = d, i
		}
	}
	return idx
}
