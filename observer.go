package kmpar

import (
	"context"
	"time"

	"github.com/hupe1980/kmpar/internal/kmeans"
)

// observer forwards engine events to the logger and metrics collector.
type observer struct {
	logger  *Logger
	metrics MetricsCollector
}

var _ kmeans.Observer = (*observer)(nil)

func (o *observer) OnPass(pass string, chunks int, d time.Duration, err error) {
	o.metrics.RecordPass(pass, chunks, d, err)
}

func (o *observer) OnRound(ctx context.Context, round, candidates int, sqErr float64) {
	o.metrics.RecordIteration(PhaseRound, round, sqErr)
	o.logger.LogRound(ctx, round, candidates, sqErr)
}

func (o *observer) OnRecluster(ctx context.Context, mode kmeans.Initialization, candidates, k int) {
	o.logger.LogRecluster(ctx, mode, candidates, k)
}

func (o *observer) OnIteration(ctx context.Context, iteration int, sqErr float64, emptyClusters int) {
	o.metrics.RecordIteration(PhaseLloyd, iteration, sqErr)
	o.logger.LogIteration(ctx, iteration, sqErr, emptyClusters)
}

func (o *observer) OnSnapshot(ctx context.Context, round, iteration int, d time.Duration, err error) {
	o.metrics.RecordSnapshot(d, err)
	o.logger.LogSnapshot(ctx, round, iteration, d, err)
}
