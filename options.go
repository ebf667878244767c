package kmpar

import (
	"context"
	"log/slog"

	"github.com/hupe1980/kmpar/resource"
)

// Snapshotter persists intermediate models. *snapshot.Store implements it.
type Snapshotter interface {
	Snapshot(ctx context.Context, dest string, m *Model) error
}

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	snapshotter      Snapshotter
	concurrency      int
	controller       *resource.Controller
	canceled         func() bool
}

// Option configures Train and Assign.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring passes
// and iterations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmpar.BasicMetricsCollector{}
//	m, _ := kmpar.Train(ctx, f, cfg, kmpar.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Passes: %d, Avg latency: %dns\n", stats.PassCount, stats.PassAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for training.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kmpar.NewJSONLogger(slog.LevelDebug)
//	m, _ := kmpar.Train(ctx, f, cfg, kmpar.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSnapshotter persists the model to Config.Destination after every
// round and iteration. It has no effect when Destination is empty.
// A failing snapshot aborts training.
func WithSnapshotter(s Snapshotter) Option {
	return func(o *options) {
		o.snapshotter = s
	}
}

// WithConcurrency bounds the number of chunks processed in parallel.
// Zero or negative means GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithResourceController shares a worker budget between jobs.
//
// Example:
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 4})
//	go kmpar.Train(ctx, a, cfgA, kmpar.WithResourceController(rc))
//	go kmpar.Train(ctx, b, cfgB, kmpar.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithCancel registers a callback polled between rounds and iterations.
// Training stops cleanly once it reports true.
func WithCancel(canceled func() bool) Option {
	return func(o *options) {
		o.canceled = canceled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
