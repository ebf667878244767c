package kmpar

import (
	"math"
	"sync/atomic"
	"time"
)

// Phases reported to RecordIteration.
const (
	PhaseRound = "round"
	PhaseLloyd = "lloyd"
)

// MetricsCollector defines an interface for collecting training metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus (see package prommetrics).
type MetricsCollector interface {
	// RecordPass is called after each data-parallel pass.
	// pass is one of "sumsqr", "sample", "lloyd" or "assign".
	RecordPass(pass string, chunks int, duration time.Duration, err error)

	// RecordIteration is called after each oversampling round (PhaseRound)
	// and Lloyd iteration (PhaseLloyd) with the total squared error.
	RecordIteration(phase string, iteration int, sqErr float64)

	// RecordSnapshot is called after each snapshot attempt.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPass(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordIteration(string, int, float64)         {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	PassCount          atomic.Int64
	PassErrors         atomic.Int64
	PassTotalNanos     atomic.Int64
	ChunkCount         atomic.Int64
	RoundCount         atomic.Int64
	IterationCount     atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	SnapshotTotalNanos atomic.Int64

	lastError atomic.Uint64
}

// RecordPass implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPass(_ string, chunks int, duration time.Duration, err error) {
	b.PassCount.Add(1)
	b.ChunkCount.Add(int64(chunks))
	b.PassTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PassErrors.Add(1)
	}
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(phase string, _ int, sqErr float64) {
	if phase == PhaseRound {
		b.RoundCount.Add(1)
	} else {
		b.IterationCount.Add(1)
	}
	b.lastError.Store(math.Float64bits(sqErr))
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PassCount:        b.PassCount.Load(),
		PassErrors:       b.PassErrors.Load(),
		PassAvgNanos:     avg(b.PassTotalNanos.Load(), b.PassCount.Load()),
		ChunkCount:       b.ChunkCount.Load(),
		RoundCount:       b.RoundCount.Load(),
		IterationCount:   b.IterationCount.Load(),
		LastError:        math.Float64frombits(b.lastError.Load()),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
		SnapshotAvgNanos: avg(b.SnapshotTotalNanos.Load(), b.SnapshotCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PassCount        int64
	PassErrors       int64
	PassAvgNanos     int64
	ChunkCount       int64
	RoundCount       int64
	IterationCount   int64
	LastError        float64
	SnapshotCount    int64
	SnapshotErrors   int64
	SnapshotAvgNanos int64
}
