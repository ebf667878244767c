package kmeans

import (
	"context"
	"runtime"
	"time"

	"github.com/hupe1980/kmpar/frame"
	"github.com/hupe1980/kmpar/model"
	"github.com/hupe1980/kmpar/resource"
	"golang.org/x/sync/errgroup"
)

// Env carries the collaborators shared by all passes of a job.
// The zero value is usable.
type Env struct {
	// Concurrency bounds the chunk tasks of one pass. Zero means GOMAXPROCS.
	Concurrency int
	// Controller, when set, bounds chunk tasks across all jobs sharing it.
	Controller *resource.Controller
	Observer   Observer
	// Snapshot receives a private copy of the model after every round and
	// iteration.
	Snapshot func(ctx context.Context, m *model.Model) error
	// Canceled is polled between rounds and iterations.
	Canceled func() bool
}

func (e *Env) concurrency() int {
	if e == nil || e.Concurrency <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return e.Concurrency
}

func (e *Env) observer() Observer {
	if e == nil || e.Observer == nil {
		return NoopObserver{}
	}
	return e.Observer
}

func (e *Env) controller() *resource.Controller {
	if e == nil {
		return nil
	}
	return e.Controller
}

func (e *Env) canceled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return e != nil && e.Canceled != nil && e.Canceled()
}

// mapChunks runs fn on every chunk of ds and returns the results in chunk
// order. The first error cancels the remaining tasks.
func mapChunks[T any](ctx context.Context, env *Env, pass string, ds Dataset, fn func(ch frame.Chunk) T) ([]T, error) {
	start := time.Now()
	chunks := ds.Chunks()
	out := make([]T, len(chunks))
	rc := env.controller()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(env.concurrency())

	for i, ch := range chunks {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fn(ch)
			return nil
		})
	}

	err := g.Wait()
	env.observer().OnPass(pass, len(chunks), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
