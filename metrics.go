package quarry

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement it to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordQuery is called when a query is closed. peakBytes is the
	// high-water mark of memory attributed to the query, blocksBuilt the
	// number of blocks its factory produced, leakedBytes the reservation
	// still outstanding at close (0 for a well-behaved query).
	RecordQuery(duration time.Duration, peakBytes, blocksBuilt, leakedBytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

// RecordQuery implements MetricsCollector.
func (NoopMetricsCollector) RecordQuery(time.Duration, int64, int64, int64) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount      atomic.Int64
	QueryTotalNanos atomic.Int64
	BlocksBuilt     atomic.Int64
	PeakBytesMax    atomic.Int64
	LeakedQueries   atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration, peakBytes, blocksBuilt, leakedBytes int64) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	b.BlocksBuilt.Add(blocksBuilt)
	for {
		max := b.PeakBytesMax.Load()
		if peakBytes <= max || b.PeakBytesMax.CompareAndSwap(max, peakBytes) {
			break
		}
	}
	if leakedBytes != 0 {
		b.LeakedQueries.Add(1)
	}
}
