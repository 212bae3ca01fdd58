package featgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    fitCounter         prometheus.Counter
//	    transformHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordFit(duration time.Duration, err error) {
//	    p.fitCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordFit is called after each fit operation.
	// duration is the total time taken, err is nil if successful.
	RecordFit(duration time.Duration, err error)

	// RecordTransform is called after each transform operation.
	// rows is the number of rows processed, duration is the time taken,
	// err is nil if successful.
	RecordTransform(rows int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(time.Duration, error)            {}
func (NoopMetricsCollector) RecordTransform(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount            atomic.Int64
	FitErrors           atomic.Int64
	FitTotalNanos       atomic.Int64
	TransformCount      atomic.Int64
	TransformErrors     atomic.Int64
	TransformRows       atomic.Int64
	TransformTotalNanos atomic.Int64
	SnapshotCount       atomic.Int64
	SnapshotErrors      atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
	}
}

// RecordTransform implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTransform(rows int, duration time.Duration, err error) {
	b.TransformCount.Add(1)
	b.TransformRows.Add(int64(rows))
	b.TransformTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TransformErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FitCount:          b.FitCount.Load(),
		FitErrors:         b.FitErrors.Load(),
		FitAvgNanos:       b.getAvgFitNanos(),
		TransformCount:    b.TransformCount.Load(),
		TransformErrors:   b.TransformErrors.Load(),
		TransformRows:     b.TransformRows.Load(),
		TransformAvgNanos: b.getAvgTransformNanos(),
		SnapshotCount:     b.SnapshotCount.Load(),
		SnapshotErrors:    b.SnapshotErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgFitNanos() int64 {
	count := b.FitCount.Load()
	if count == 0 {
		return 0
	}
	return b.FitTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgTransformNanos() int64 {
	count := b.TransformCount.Load()
	if count == 0 {
		return 0
	}
	return b.TransformTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FitCount          int64
	FitErrors         int64
	FitAvgNanos       int64
	TransformCount    int64
	TransformErrors   int64
	TransformRows     int64
	TransformAvgNanos int64
	SnapshotCount     int64
	SnapshotErrors    int64
}
