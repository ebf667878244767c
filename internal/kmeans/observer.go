package kmeans

import (
	"context"
	"time"
)

// Pass names reported to the Observer.
const (
	PassSumSqr = "sumsqr"
	PassSample = "sample"
	PassLloyd  = "lloyd"
	PassAssign = "assign"
)

// Observer receives training events.
type Observer interface {
	// OnPass is called when a data-parallel pass finishes.
	OnPass(pass string, chunks int, d time.Duration, err error)

	// OnRound is called after each oversampling round.
	OnRound(ctx context.Context, round, candidates int, sqErr float64)

	// OnRecluster is called after the candidates were reduced to k centers.
	OnRecluster(ctx context.Context, mode Initialization, candidates, k int)

	// OnIteration is called after each Lloyd iteration.
	OnIteration(ctx context.Context, iteration int, sqErr float64, emptyClusters int)

	// OnSnapshot is called after the snapshotter returned. round and
	// iteration are the counts of the snapshotted model.
	OnSnapshot(ctx context.Context, round, iteration int, d time.Duration, err error)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (NoopObserver) OnPass(string, int, time.Duration, error)                   {}
func (NoopObserver) OnRound(context.Context, int, int, float64)                 {}
func (NoopObserver) OnRecluster(context.Context, Initialization, int, int)      {}
func (NoopObserver) OnIteration(context.Context, int, float64, int)             {}
func (NoopObserver) OnSnapshot(context.Context, int, int, time.Duration, error) {}
