package totalspin

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting estimator metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordEstimate is called after each estimate.
	// dim is the basis dimension, pairs the number of ordered site pairs
	// swept, err is nil if successful.
	RecordEstimate(model Model, dim, pairs int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEstimate(Model, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EstimateCount      atomic.Int64
	EstimateErrors     atomic.Int64
	EstimateTotalNanos atomic.Int64
	BasisRows          atomic.Int64
	SitePairs          atomic.Int64
}

// RecordEstimate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEstimate(_ Model, dim, pairs int, duration time.Duration, err error) {
	b.EstimateCount.Add(1)
	b.EstimateTotalNanos.Add(duration.Nanoseconds())
	b.BasisRows.Add(int64(dim))
	b.SitePairs.Add(int64(pairs))
	if err != nil {
		b.EstimateErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	count := b.EstimateCount.Load()
	var avg int64
	if count > 0 {
		avg = b.EstimateTotalNanos.Load() / count
	}
	return BasicMetricsStats{
		EstimateCount:    count,
		EstimateErrors:   b.EstimateErrors.Load(),
		EstimateAvgNanos: avg,
		BasisRows:        b.BasisRows.Load(),
		SitePairs:        b.SitePairs.Load(),
	}
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	EstimateCount    int64
	EstimateErrors   int64
	EstimateAvgNanos int64
	BasisRows        int64
	SitePairs        int64
}
