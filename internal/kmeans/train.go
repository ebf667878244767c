package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/hupe1980/kmpar/frame"
	"github.com/hupe1980/kmpar/model"
)

const (
	// MinK and MaxK bound the number of clusters.
	MinK = 2
	MaxK = 100000
	// MaxIterLimit bounds the number of Lloyd iterations.
	MaxIterLimit = 100000
	// Rounds is the fixed number of K-Means|| oversampling rounds.
	Rounds = 5
	// OversamplingFactor multiplied by k gives the expected number of
	// candidates drawn per round.
	OversamplingFactor = 3
)

// Config holds the resolved training parameters.
type Config struct {
	K              int
	MaxIter        int
	Initialization Initialization
	Normalize      bool
	Seed           int64
	Names          []string
}

// Validate checks cfg against ds.
func (cfg *Config) Validate(ds Dataset) error {
	if cfg.K < MinK || cfg.K > MaxK {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidK, cfg.K, MinK, MaxK)
	}
	if cfg.MaxIter < 1 || cfg.MaxIter > MaxIterLimit {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidMaxIter, cfg.MaxIter, MaxIterLimit)
	}
	if !cfg.Initialization.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidInitialization, cfg.Initialization)
	}
	if ds.NumCols() == 0 {
		return ErrNoFeatures
	}
	if ds.NumRows() == 0 {
		return ErrEmptyDataset
	}
	return nil
}

// Train runs K-Means|| seeding (unless Initialization is InitNone) followed
// by Lloyd iterations until MaxIter is reached or the job is canceled.
//
// Cancellation is not an error: the model of the last finished round or
// iteration is returned with Canceled set.
func Train(ctx context.Context, ds Dataset, cfg Config, env *Env) (*model.Model, error) {
	if err := cfg.Validate(ds); err != nil {
		return nil, err
	}

	t := &trainer{
		ds:   ds,
		cfg:  cfg,
		env:  env,
		obs:  env.observer(),
		norm: NewNormalization(ds, cfg.Normalize),
		// -1 keeps the driver stream apart from every chunk stream.
		rng: rand.New(rand.NewSource(cfg.Seed - 1)),
	}
	t.initModel()

	centers, err := t.seed(ctx)
	if err != nil {
		return t.finish(ctx, err)
	}
	if t.m.Canceled {
		return t.m, nil
	}

	for {
		stats, err := Lloyd(ctx, env, ds, centers, t.norm)
		if err != nil {
			return t.finish(ctx, err)
		}
		centers = stats.Centers(centers)

		t.m.Clusters = t.m.Denormalize(centers)
		t.m.Variances = stats.Variances()
		t.m.Rows = slices.Clone(stats.Rows)
		t.m.Error = stats.Sqr
		t.m.Iterations++
		t.obs.OnIteration(ctx, t.m.Iterations, stats.Sqr, stats.EmptyClusters())

		if err := t.snapshot(ctx); err != nil {
			return t.finish(ctx, err)
		}
		if t.m.Iterations >= cfg.MaxIter {
			return t.m, nil
		}
		if env.canceled(ctx) {
			t.m.Canceled = true
			return t.m, nil
		}
	}
}

type trainer struct {
	ds   Dataset
	cfg  Config
	env  *Env
	obs  Observer
	norm *Normalization
	rng  *rand.Rand
	m    *model.Model
}

func (t *trainer) initModel() {
	t.m = &model.Model{
		K:              t.cfg.K,
		MaxIter:        t.cfg.MaxIter,
		Initialization: t.cfg.Initialization.String(),
		Seed:           t.cfg.Seed,
		Normalized:     t.cfg.Normalize,
		Names:          slices.Clone(t.cfg.Names),
		Domain:         model.Domain(t.cfg.K),
	}
	if t.norm.Enabled() {
		d := t.ds.NumCols()
		t.m.Means = slices.Clone(t.norm.Subs)
		t.m.Muls = slices.Clone(t.norm.Muls)
		t.m.Sigmas = make([]float64, d)
		for c := range d {
			t.m.Sigmas[c] = t.ds.Sigma(c)
		}
	}
}

// seed returns the k starting centers in training space.
func (t *trainer) seed(ctx context.Context) ([][]float64, error) {
	k := t.cfg.K

	if t.cfg.Initialization == InitNone {
		centers := make([][]float64, k)
		for i := range centers {
			centers[i] = t.randomRow()
		}
		return centers, nil
	}

	centers := [][]float64{t.randomRow()}
	ell := float64(OversamplingFactor * k)

	for t.m.Rounds < Rounds {
		sqr, err := SumSqr(ctx, t.env, t.ds, centers, t.norm)
		if err != nil {
			return nil, err
		}
		sampled, err := Sample(ctx, t.env, t.ds, centers, t.norm, sqr, ell, t.cfg.Seed)
		if err != nil {
			return nil, err
		}
		centers = append(centers, sampled...)

		t.m.Clusters = t.m.Denormalize(centers)
		t.m.Error = sqr
		t.m.Rounds++
		t.obs.OnRound(ctx, t.m.Rounds, len(centers), sqr)

		if err := t.snapshot(ctx); err != nil {
			return nil, err
		}
		if t.env.canceled(ctx) {
			t.m.Canceled = true
			return nil, nil
		}
	}

	candidates := len(centers)
	centers, err := Recluster(centers, k, t.rng, t.cfg.Initialization)
	if err != nil {
		return nil, err
	}
	t.obs.OnRecluster(ctx, t.cfg.Initialization, candidates, k)
	return centers, nil
}

// randomRow materializes row max(0, floor(u*n)-1) as an imputed center.
func (t *trainer) randomRow() []float64 {
	n := t.ds.NumRows()
	row := max(0, int(t.rng.Float64()*float64(n))-1)

	chunks := t.ds.Chunks()
	i, _ := slices.BinarySearchFunc(chunks, row, func(ch frame.Chunk, row int) int {
		switch {
		case ch.Start+ch.Len <= row:
			return -1
		case ch.Start > row:
			return 1
		default:
			return 0
		}
	})
	ch := chunks[i]

	x := make([]float64, t.ds.NumCols())
	t.norm.Row(x, ch, row-ch.Start)
	t.norm.Impute(x)
	return x
}

func (t *trainer) snapshot(ctx context.Context) error {
	if t.env == nil || t.env.Snapshot == nil {
		return nil
	}
	start := time.Now()
	err := t.env.Snapshot(ctx, t.m.Clone())
	t.obs.OnSnapshot(ctx, t.m.Rounds, t.m.Iterations, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// finish turns a pass aborted by cancellation into a clean return.
func (t *trainer) finish(ctx context.Context, err error) (*model.Model, error) {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		t.m.Canceled = true
		return t.m, nil
	}
	return nil, err
}
