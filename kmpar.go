package kmpar

import (
	"context"
	"time"

	"github.com/hupe1980/kmpar/frame"
	"github.com/hupe1980/kmpar/internal/kmeans"
	"github.com/hupe1980/kmpar/model"
)

// Model is a trained (or partially trained) K-Means model.
type Model = model.Model

// Assignment maps every row of a dataset to its nearest cluster.
type Assignment = kmeans.Assignment

// Train clusters the rows of ds.
//
// The returned model is in original units. When training is canceled
// through ctx or WithCancel, the model of the last finished round or
// iteration is returned with Canceled set and a nil error. Clusters then
// holds K centers only if Iterations > 0: a job canceled during the
// oversampling rounds returns the candidates sampled so far, which may be
// none. Such a model cannot be passed to Assign.
func Train(ctx context.Context, ds *frame.Frame, cfg Config, optFns ...Option) (*Model, error) {
	o := applyOptions(optFns)
	start := time.Now()

	features, err := cfg.features(ds)
	if err != nil {
		o.logger.LogTrainDone(ctx, nil, time.Since(start), err)
		return nil, err
	}

	seed, err := cfg.seed()
	if err != nil {
		o.logger.LogTrainDone(ctx, nil, time.Since(start), err)
		return nil, err
	}

	logger := o.logger.WithK(cfg.K).WithDimension(features.NumCols())
	env := &kmeans.Env{
		Concurrency: o.concurrency,
		Controller:  o.controller,
		Observer:    &observer{logger: logger, metrics: o.metricsCollector},
		Canceled:    o.canceled,
	}
	if o.snapshotter != nil && cfg.Destination != "" {
		logger = logger.WithDestination(cfg.Destination)
		env.Observer = &observer{logger: logger, metrics: o.metricsCollector}
		env.Snapshot = func(ctx context.Context, m *model.Model) error {
			return o.snapshotter.Snapshot(ctx, cfg.Destination, m)
		}
	}

	logger.LogTrainStart(ctx, features.NumRows(), features.NumCols(), cfg.Initialization, seed)

	m, err := kmeans.Train(ctx, features, cfg.resolve(seed, features), env)
	if err != nil {
		err = translateError(err)
		logger.LogTrainDone(ctx, nil, time.Since(start), err)
		return nil, err
	}
	if m.Canceled {
		logger.LogCanceled(ctx, m, time.Since(start))
	} else {
		logger.LogTrainDone(ctx, m, time.Since(start), nil)
	}
	return m, nil
}

// Assign computes the nearest cluster of every row of ds under m.
// ds must hold exactly the feature columns m was trained on, in order.
// Rows without observed cells are reported in Assignment.Broken.
func Assign(ctx context.Context, ds *frame.Frame, m *Model, optFns ...Option) (*Assignment, error) {
	o := applyOptions(optFns)

	if ds == nil || ds.NumRows() == 0 {
		return nil, ErrEmptyDataset
	}
	if m == nil || m.Iterations == 0 || len(m.Clusters) != m.K {
		return nil, ErrModelNotTrained
	}
	if d := len(m.Clusters[0]); d != ds.NumCols() {
		return nil, &ErrDimensionMismatch{Expected: d, Actual: ds.NumCols()}
	}

	norm := &kmeans.Normalization{}
	if m.Normalized {
		norm.Subs, norm.Muls = m.Means, m.Muls
	}

	env := &kmeans.Env{
		Concurrency: o.concurrency,
		Controller:  o.controller,
		Observer:    &observer{logger: o.logger, metrics: o.metricsCollector},
	}
	return kmeans.Assign(ctx, env, ds, m.Normalize(m.Clusters), norm)
}
