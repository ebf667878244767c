// Package prommetrics exports training metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, _ := prommetrics.NewCollector(reg)
//	m, _ := kmpar.Train(ctx, f, cfg, kmpar.WithMetricsCollector(c))
package prommetrics

import (
	"time"

	"github.com/hupe1980/kmpar"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements kmpar.MetricsCollector.
type Collector struct {
	passLatency     *prometheus.HistogramVec
	chunks          *prometheus.CounterVec
	iterations      *prometheus.CounterVec
	sqErr           *prometheus.GaugeVec
	snapshotLatency *prometheus.HistogramVec
}

var _ kmpar.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		passLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kmpar_pass_duration_seconds",
			Help:    "Duration of data-parallel passes",
			Buckets: prometheus.DefBuckets,
		}, []string{"pass", "status"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kmpar_chunks_processed_total",
			Help: "Total chunks processed by passes",
		}, []string{"pass"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kmpar_iterations_total",
			Help: "Total oversampling rounds and Lloyd iterations",
		}, []string{"phase"}),
		sqErr: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kmpar_squared_error",
			Help: "Total squared error of the last round or iteration",
		}, []string{"phase"}),
		snapshotLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kmpar_snapshot_duration_seconds",
			Help:    "Duration of model snapshots",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
	}

	for _, col := range []prometheus.Collector{c.passLatency, c.chunks, c.iterations, c.sqErr, c.snapshotLatency} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordPass implements kmpar.MetricsCollector.
func (c *Collector) RecordPass(pass string, chunks int, d time.Duration, err error) {
	c.passLatency.WithLabelValues(pass, status(err)).Observe(d.Seconds())
	c.chunks.WithLabelValues(pass).Add(float64(chunks))
}

// RecordIteration implements kmpar.MetricsCollector.
func (c *Collector) RecordIteration(phase string, _ int, sqErr float64) {
	c.iterations.WithLabelValues(phase).Inc()
	c.sqErr.WithLabelValues(phase).Set(sqErr)
}

// RecordSnapshot implements kmpar.MetricsCollector.
func (c *Collector) RecordSnapshot(d time.Duration, err error) {
	c.snapshotLatency.WithLabelValues(status(err)).Observe(d.Seconds())
}
