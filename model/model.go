package model

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Model is a trained (or partially trained) K-Means model.
type Model struct {
	// K is the requested number of clusters.
	K int
	// MaxIter bounds the number of Lloyd iterations.
	MaxIter int
	// Iterations counts finished Lloyd iterations.
	Iterations int
	// Rounds counts finished K-Means|| oversampling rounds.
	Rounds int
	// Initialization names the seeding mode ("None", "PlusPlus", "Furthest").
	Initialization string
	// Seed is the effective seed of the run.
	Seed int64
	// Normalized reports whether training ran in normalized space.
	Normalized bool

	// Names are the feature column names in training order.
	Names []string
	// Domain labels the clusters ("Cluster 0", ...).
	Domain []string

	// Clusters holds the centroids in original units. During oversampling
	// rounds it holds every candidate, so len(Clusters) may exceed K.
	Clusters [][]float64
	// Variances holds per-cluster per-column sample variances.
	Variances [][]float64
	// Rows is the number of rows assigned to each cluster by the last
	// Lloyd iteration.
	Rows []int64
	// Error is the total squared error of the last finished pass.
	Error float64

	// Means, Sigmas and Muls are the per-column normalization parameters.
	// They are nil unless Normalized is set.
	Means  []float64
	Sigmas []float64
	Muls   []float64

	// Canceled is set when training stopped before MaxIter.
	Canceled bool
}

// Domain returns the cluster labels for k clusters.
func Domain(k int) []string {
	labels := make([]string, k)
	for i := range labels {
		labels[i] = fmt.Sprintf("Cluster %d", i)
	}
	return labels
}

// Progress returns the fraction of finished Lloyd iterations in [0, 1].
func (m *Model) Progress() float64 {
	if m.MaxIter <= 0 {
		return 0
	}
	return math.Min(1, float64(m.Iterations)/float64(m.MaxIter))
}

// Clone returns a deep copy of m.
func (m *Model) Clone() *Model {
	c := *m
	c.Names = slices.Clone(m.Names)
	c.Domain = slices.Clone(m.Domain)
	c.Clusters = cloneMatrix(m.Clusters)
	c.Variances = cloneMatrix(m.Variances)
	c.Rows = slices.Clone(m.Rows)
	c.Means = slices.Clone(m.Means)
	c.Sigmas = slices.Clone(m.Sigmas)
	c.Muls = slices.Clone(m.Muls)
	return &c
}

// Normalize maps points from original units into the model's training
// space. It returns a copy of points when the model is not normalized.
// Columns with sigma <= 1e-6 are only shifted, so Denormalize, which scales
// by Sigmas, is not its exact inverse on those columns.
func (m *Model) Normalize(points [][]float64) [][]float64 {
	out := cloneMatrix(points)
	if !m.Normalized {
		return out
	}
	for _, p := range out {
		for c := range p {
			if !math.IsNaN(p[c]) {
				p[c] = (p[c] - m.Means[c]) * m.Muls[c]
			}
		}
	}
	return out
}

// Denormalize maps points from the model's training space back to
// original units using the full column sigma.
func (m *Model) Denormalize(points [][]float64) [][]float64 {
	out := cloneMatrix(points)
	if !m.Normalized {
		return out
	}
	for _, p := range out {
		for c := range p {
			p[c] = p[c]*m.Sigmas[c] + m.Means[c]
		}
	}
	return out
}

func cloneMatrix(src [][]float64) [][]float64 {
	if src == nil {
		return nil
	}
	dst := make([][]float64, len(src))
	for i, row := range src {
		dst[i] = slices.Clone(row)
	}
	return dst
}

// jsonModel mirrors Model with NaN-safe matrices.
type jsonModel struct {
	K              int          `json:"k"`
	MaxIter        int          `json:"max_iter"`
	Iterations     int          `json:"iterations"`
	Rounds         int          `json:"rounds"`
	Initialization string       `json:"initialization"`
	Seed           int64        `json:"seed"`
	Normalized     bool         `json:"normalized"`
	Names          []string     `json:"names,omitempty"`
	Domain         []string     `json:"domain,omitempty"`
	Clusters       [][]*float64 `json:"clusters"`
	Variances      [][]*float64 `json:"variances,omitempty"`
	Rows           []int64      `json:"rows,omitempty"`
	Error          *float64     `json:"error"`
	Means          []float64    `json:"means,omitempty"`
	Sigmas         []float64    `json:"sigmas,omitempty"`
	Muls           []float64    `json:"muls,omitempty"`
	Canceled       bool         `json:"canceled,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonModel{
		K:              m.K,
		MaxIter:        m.MaxIter,
		Iterations:     m.Iterations,
		Rounds:         m.Rounds,
		Initialization: m.Initialization,
		Seed:           m.Seed,
		Normalized:     m.Normalized,
		Names:          m.Names,
		Domain:         m.Domain,
		Clusters:       toNullable(m.Clusters),
		Variances:      toNullable(m.Variances),
		Rows:           m.Rows,
		Error:          nullable(m.Error),
		Means:          m.Means,
		Sigmas:         m.Sigmas,
		Muls:           m.Muls,
		Canceled:       m.Canceled,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Model) UnmarshalJSON(data []byte) error {
	var j jsonModel
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}

	*m = Model{
		K:              j.K,
		MaxIter:        j.MaxIter,
		Iterations:     j.Iterations,
		Rounds:         j.Rounds,
		Initialization: j.Initialization,
		Seed:           j.Seed,
		Normalized:     j.Normalized,
		Names:          j.Names,
		Domain:         j.Domain,
		Clusters:       fromNullable(j.Clusters),
		Variances:      fromNullable(j.Variances),
		Rows:           j.Rows,
		Error:          math.NaN(),
		Means:          j.Means,
		Sigmas:         j.Sigmas,
		Muls:           j.Muls,
		Canceled:       j.Canceled,
	}
	if j.Error != nil {
		m.Error = *j.Error
	}
	return nil
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toNullable(src [][]float64) [][]*float64 {
	if src == nil {
		return nil
	}
	dst := make([][]*float64, len(src))
	for i, row := range src {
		dst[i] = make([]*float64, len(row))
		for j, v := range row {
			dst[i][j] = nullable(v)
		}
	}
	return dst
}

func fromNullable(src [][]*float64) [][]float64 {
	if src == nil {
		return nil
	}
	dst := make([][]float64, len(src))
	for i, row := range src {
		dst[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				dst[i][j] = math.NaN()
			} else {
				dst[i][j] = *v
			}
		}
	}
	return dst
}
