package kmeans

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/kmpar/resource"
	"github.com/hupe1980/kmpar/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passRecorder struct {
	NoopObserver
	passes atomic.Int64
	chunks atomic.Int64
	errors atomic.Int64
}

func (r *passRecorder) OnPass(_ string, chunks int, _ time.Duration, err error) {
	r.passes.Add(1)
	r.chunks.Add(int64(chunks))
	if err != nil {
		r.errors.Add(1)
	}
}

func TestSumSqr(t *testing.T) {
	rng := testutil.NewRNG(1)
	rows := rng.UniformRows(500, 3, -10, 10)
	centers := [][]float64{{0, 0, 0}, {5, 5, 5}}

	f := mustFrame(t, rows, 33)
	rec := &passRecorder{}

	got, err := SumSqr(t.Context(), &Env{Observer: rec}, f, centers, plainNorm(f))
	require.NoError(t, err)

	assert.InDelta(t, testutil.SSE(rows, centers), got, 1e-8)
	assert.Equal(t, int64(1), rec.passes.Load())
	assert.Equal(t, int64(len(f.Chunks())), rec.chunks.Load())
}

func TestSumSqrCanceled(t *testing.T) {
	f := mustFrame(t, [][]float64{{1}, {2}}, 1)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	rec := &passRecorder{}
	_, err := SumSqr(ctx, &Env{Observer: rec}, f, [][]float64{{0}}, plainNorm(f))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(1), rec.errors.Load())
}

func TestSampleDeterministic(t *testing.T) {
	rng := testutil.NewRNG(3)
	rows := rng.GaussianBlobs([][]float64{{0, 0}, {10, 10}, {-10, 10}}, 200, 1)
	f := mustFrame(t, rows, 50)
	norm := plainNorm(f)
	centers := [][]float64{rows[0]}

	sqr, err := SumSqr(t.Context(), nil, f, centers, norm)
	require.NoError(t, err)

	first, err := Sample(t.Context(), &Env{Concurrency: 1}, f, centers, norm, sqr, 9, 42)
	require.NoError(t, err)
	second, err := Sample(t.Context(), &Env{Concurrency: 8}, f, centers, norm, sqr, 9, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
	assert.Less(t, len(first), 60)

	other, err := Sample(t.Context(), nil, f, centers, norm, sqr, 9, 43)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSampleSkipsCoveredRows(t *testing.T) {
	rows := testutil.Repeat([][]float64{{1, 1}}, 100)
	f := mustFrame(t, rows, 10)

	sampled, err := Sample(t.Context(), nil, f, [][]float64{{1, 1}}, plainNorm(f), 0, 6, 1)
	require.NoError(t, err)
	assert.Empty(t, sampled)
}

func TestSampleImputes(t *testing.T) {
	nan := math.NaN()
	rows := [][]float64{{0, 0}, {100, nan}, {0, 4}}
	f := mustFrame(t, rows, 10)
	norm := plainNorm(f)

	// A huge factor keeps every row with a positive distance.
	sampled, err := Sample(t.Context(), nil, f, [][]float64{{0, 0}}, norm, 1, 1e12, 5)
	require.NoError(t, err)
	require.Len(t, sampled, 2)
	assert.Equal(t, []float64{100, 2}, sampled[0])
	assert.Equal(t, []float64{0, 4}, sampled[1])
}

func TestPassesShareController(t *testing.T) {
	rng := testutil.NewRNG(5)
	rows := rng.UniformRows(1000, 2, 0, 1)
	f := mustFrame(t, rows, 10)

	rc := resource.NewController(resource.Config{MaxWorkers: 2})
	env := &Env{Concurrency: 16, Controller: rc}

	got, err := SumSqr(t.Context(), env, f, [][]float64{{0.5, 0.5}}, plainNorm(f))
	require.NoError(t, err)
	assert.InDelta(t, testutil.SSE(rows, [][]float64{{0.5, 0.5}}), got, 1e-9)
	assert.Zero(t, rc.BusyWorkers())
}
