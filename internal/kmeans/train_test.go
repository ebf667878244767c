package kmeans

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/kmpar/frame"
	"github.com/hupe1980/kmpar/model"
	"github.com/hupe1980/kmpar/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNoNaN(t *testing.T, m [][]float64) {
	t.Helper()
	for i, row := range m {
		for j, v := range row {
			assert.False(t, math.IsNaN(v), "NaN at [%d][%d]", i, j)
		}
	}
}

func sortedByFirst(points [][]float64) [][]float64 {
	out := slices.Clone(points)
	slices.SortFunc(out, func(a, b []float64) int {
		for c := range a {
			if a[c] < b[c] {
				return -1
			}
			if a[c] > b[c] {
				return 1
			}
		}
		return 0
	})
	return out
}

func TestTrainValidation(t *testing.T) {
	f := mustFrame(t, [][]float64{{1}, {2}}, 10)
	empty := mustFrame(t, nil, 10)

	tests := []struct {
		name string
		cfg  Config
		ds   Dataset
		want error
	}{
		{"k too small", Config{K: 1, MaxIter: 1}, f, ErrInvalidK},
		{"k too large", Config{K: MaxK + 1, MaxIter: 1}, f, ErrInvalidK},
		{"max_iter zero", Config{K: 2, MaxIter: 0}, f, ErrInvalidMaxIter},
		{"max_iter too large", Config{K: 2, MaxIter: MaxIterLimit + 1}, f, ErrInvalidMaxIter},
		{"bad init", Config{K: 2, MaxIter: 1, Initialization: 7}, f, ErrInvalidInitialization},
		{"no features", Config{K: 2, MaxIter: 1}, empty, ErrNoFeatures},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(t.Context(), tt.ds, tt.cfg, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTrainEmptyDataset(t *testing.T) {
	noRows, err := frame.New([][]float64{{}})
	require.NoError(t, err)

	_, err = Train(t.Context(), noRows, Config{K: 2, MaxIter: 1}, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestValidateColumns(t *testing.T) {
	assert.NoError(t, ValidateColumns([]int{2, 0}, 3))

	var colErr *ErrInvalidColumn
	err := ValidateColumns([]int{0, 3}, 3)
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, 3, colErr.Column)
	assert.False(t, colErr.Duplicate)

	err = ValidateColumns([]int{1, 1}, 3)
	require.ErrorAs(t, err, &colErr)
	assert.True(t, colErr.Duplicate)
}

func TestTrainTwoClusters(t *testing.T) {
	rng := testutil.NewRNG(42)
	rows := rng.GaussianBlobs([][]float64{{0, 0}, {10, 10}}, 100, 0.1)
	f := mustFrame(t, rows, 32)

	m, err := Train(t.Context(), f, Config{K: 2, MaxIter: 10, Seed: 42}, nil)
	require.NoError(t, err)

	got := sortedByFirst(m.Clusters)
	assert.InDeltaSlice(t, []float64{0, 0}, got[0], 0.1)
	assert.InDeltaSlice(t, []float64{10, 10}, got[1], 0.1)
	assert.Less(t, m.Error/float64(len(rows)), 0.05)
	assert.Equal(t, 10, m.Iterations)
	assert.Zero(t, m.Rounds)
	assert.False(t, m.Canceled)
	assert.Equal(t, []string{"Cluster 0", "Cluster 1"}, m.Domain)
	assert.InDelta(t, 1.0, m.Progress(), 1e-12)
}

func TestTrainCollinearPlusPlus(t *testing.T) {
	rows := testutil.Repeat([][]float64{{0, 0}, {5, 0}, {10, 0}}, 100)
	f := mustFrame(t, rows, 64)

	m, err := Train(t.Context(), f, Config{K: 3, MaxIter: 5, Initialization: InitPlusPlus, Seed: 7}, nil)
	require.NoError(t, err)

	got := sortedByFirst(m.Clusters)
	require.Len(t, got, 3)
	assert.InDeltaSlice(t, []float64{0, 0}, got[0], 1e-9)
	assert.InDeltaSlice(t, []float64{5, 0}, got[1], 1e-9)
	assert.InDeltaSlice(t, []float64{10, 0}, got[2], 1e-9)
	assert.InDelta(t, 0, m.Error, 1e-9)
	assert.Equal(t, Rounds, m.Rounds)
	assert.Equal(t, 5, m.Iterations)
}

func TestTrainCornersFurthest(t *testing.T) {
	corners := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	rows := testutil.Repeat(corners, 25)
	f := mustFrame(t, rows, 16)

	for _, init := range []Initialization{InitFurthest, InitPlusPlus} {
		t.Run(init.String(), func(t *testing.T) {
			m, err := Train(t.Context(), f, Config{K: 4, MaxIter: 3, Initialization: init, Seed: 99}, nil)
			require.NoError(t, err)

			assert.InDelta(t, 0, m.Error, 1e-9)
			if init == InitFurthest {
				assert.Equal(t, corners, sortedByFirst(m.Clusters))
			}
		})
	}
}

func TestTrainMissingValues(t *testing.T) {
	nan := math.NaN()
	rows := append(
		testutil.Repeat([][]float64{{1, nan}}, 50),
		testutil.Repeat([][]float64{{nan, 1}}, 50)...,
	)
	f := mustFrame(t, rows, 10)

	m, err := Train(t.Context(), f, Config{K: 2, MaxIter: 1, Seed: 3}, nil)
	require.NoError(t, err)

	require.Len(t, m.Clusters, 2)
	for _, c := range m.Clusters {
		assert.Equal(t, []float64{1, 1}, c)
	}
	assert.InDelta(t, 0, m.Error, 1e-12)
}

func TestTrainNormalization(t *testing.T) {
	rng := testutil.NewRNG(5)
	var rows [][]float64
	for range 100 {
		rows = append(rows, []float64{rng.Float64(), rng.Float64() * 1e-5})
	}
	for range 100 {
		rows = append(rows, []float64{1000 + rng.Float64(), 0.001 + rng.Float64()*1e-5})
	}
	f := mustFrame(t, rows, 25)

	m, err := Train(t.Context(), f, Config{K: 2, MaxIter: 10, Normalize: true, Initialization: InitPlusPlus, Seed: 17}, nil)
	require.NoError(t, err)

	assert.True(t, m.Normalized)
	got := sortedByFirst(m.Clusters)
	assert.InDelta(t, 0.5, got[0][0], 0.2)
	assert.InDelta(t, 0.0, got[0][1], 1e-4)
	assert.InDelta(t, 1000.5, got[1][0], 0.2)
	assert.InDelta(t, 0.001, got[1][1], 1e-4)
	assert.Equal(t, []int64{100, 100}, m.Rows)

	// Centers in training space map back to reported clusters.
	back := m.Denormalize(m.Normalize(m.Clusters))
	for i := range back {
		for c := range back[i] {
			want := m.Clusters[i][c]
			assert.InDelta(t, want, back[i][c], 1e-12*math.Max(1, math.Abs(want)))
		}
	}
}

func TestTrainCancelAfterThreeIterations(t *testing.T) {
	rng := testutil.NewRNG(8)
	rows := rng.GaussianBlobs([][]float64{{0, 0}, {3, 3}, {6, 0}}, 100, 1)
	f := mustFrame(t, rows, 50)

	calls := 0
	env := &Env{Canceled: func() bool {
		calls++
		return calls >= 3
	}}

	m, err := Train(t.Context(), f, Config{K: 3, MaxIter: 1000, Seed: 1}, env)
	require.NoError(t, err)

	assert.True(t, m.Canceled)
	assert.Equal(t, 3, m.Iterations)
	require.Len(t, m.Clusters, 3)
	assertNoNaN(t, m.Clusters)
}

func TestTrainContextCanceledDuringRounds(t *testing.T) {
	rows := testutil.NewRNG(2).UniformRows(200, 2, 0, 1)
	f := mustFrame(t, rows, 20)

	ctx, cancel := context.WithCancel(t.Context())
	env := &Env{Snapshot: func(_ context.Context, m *model.Model) error {
		if m.Rounds == 2 {
			cancel()
		}
		return nil
	}}

	m, err := Train(ctx, f, Config{K: 2, MaxIter: 10, Initialization: InitPlusPlus, Seed: 1}, env)
	require.NoError(t, err)
	assert.True(t, m.Canceled)
	assert.Equal(t, 2, m.Rounds)
	assert.Zero(t, m.Iterations)
}

func TestTrainSnapshotError(t *testing.T) {
	rows := testutil.NewRNG(2).UniformRows(50, 2, 0, 1)
	f := mustFrame(t, rows, 20)

	boom := errors.New("disk full")
	env := &Env{Snapshot: func(context.Context, *model.Model) error { return boom }}

	_, err := Train(t.Context(), f, Config{K: 2, MaxIter: 3, Seed: 1}, env)
	assert.ErrorIs(t, err, boom)
}

func TestTrainSnapshots(t *testing.T) {
	rng := testutil.NewRNG(21)
	rows := rng.GaussianBlobs([][]float64{{0, 0}, {4, 4}, {8, 0}, {4, -4}}, 80, 1.5)
	rng.Shuffle(rows)
	f := mustFrame(t, rows, 40)

	var (
		mu        sync.Mutex
		snapshots []*model.Model
	)
	env := &Env{Concurrency: 4, Snapshot: func(_ context.Context, m *model.Model) error {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, m)
		return nil
	}}

	m, err := Train(t.Context(), f, Config{K: 4, MaxIter: 15, Initialization: InitPlusPlus, Seed: 4}, env)
	require.NoError(t, err)

	require.Len(t, snapshots, Rounds+15)
	for i, s := range snapshots[:Rounds] {
		assert.Equal(t, i+1, s.Rounds)
		assert.Zero(t, s.Iterations)
	}

	lloyd := snapshots[Rounds:]
	for i := 1; i < len(lloyd); i++ {
		prev, cur := lloyd[i-1].Error, lloyd[i].Error
		assert.LessOrEqual(t, cur, prev+1e-9*math.Abs(prev), "iteration %d", i+1)
	}

	assert.LessOrEqual(t, m.Iterations, m.MaxIter)
	assert.GreaterOrEqual(t, m.Error, 0.0)
	assertNoNaN(t, m.Clusters)
	for clu, rowsIn := range m.Rows {
		if rowsIn >= 2 {
			for _, v := range m.Variances[clu] {
				assert.GreaterOrEqual(t, v, 0.0)
			}
		}
	}

	// Snapshots are private copies.
	lloyd[0].Clusters[0][0] = math.Inf(1)
	assert.False(t, math.IsInf(m.Clusters[0][0], 1))
}

type snapshotEvent struct{ round, iteration int }

type snapshotRecorder struct {
	NoopObserver
	events []snapshotEvent
}

func (r *snapshotRecorder) OnSnapshot(_ context.Context, round, iteration int, _ time.Duration, _ error) {
	r.events = append(r.events, snapshotEvent{round, iteration})
}

func TestTrainSnapshotEventsCarryRound(t *testing.T) {
	rows := testutil.NewRNG(3).UniformRows(120, 2, 0, 1)
	f := mustFrame(t, rows, 30)

	rec := &snapshotRecorder{}
	env := &Env{
		Observer: rec,
		Snapshot: func(context.Context, *model.Model) error { return nil },
	}

	_, err := Train(t.Context(), f, Config{K: 2, MaxIter: 2, Seed: 1}, env)
	require.NoError(t, err)

	want := make([]snapshotEvent, 0, Rounds+2)
	for r := 1; r <= Rounds; r++ {
		want = append(want, snapshotEvent{r, 0})
	}
	want = append(want, snapshotEvent{Rounds, 1}, snapshotEvent{Rounds, 2})
	assert.Equal(t, want, rec.events)
}

func TestTrainDeterministic(t *testing.T) {
	rng := testutil.NewRNG(13)
	rows := rng.GaussianBlobs([][]float64{{0, 0, 0}, {5, 5, 5}, {10, 0, 5}}, 150, 2)
	rng.Shuffle(rows)
	rng.SprinkleNaN(rows, 0.1)
	f := mustFrame(t, rows, 37)

	cfg := Config{K: 3, MaxIter: 8, Initialization: InitPlusPlus, Normalize: true, Seed: -12345}

	a, err := Train(t.Context(), f, cfg, &Env{Concurrency: 1})
	require.NoError(t, err)
	b, err := Train(t.Context(), f, cfg, &Env{Concurrency: 8})
	require.NoError(t, err)

	assert.Equal(t, a.Clusters, b.Clusters)
	assert.Equal(t, a.Error, b.Error)
	assertNoNaN(t, a.Clusters)

	for c := range f.NumCols() {
		lo, hi := f.Vec(c).Min(), f.Vec(c).Max()
		for _, center := range a.Clusters {
			assert.GreaterOrEqual(t, center[c], lo-1e-9)
			assert.LessOrEqual(t, center[c], hi+1e-9)
		}
	}
}
