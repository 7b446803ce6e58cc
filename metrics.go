package bytevec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting vector metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// A collector may be shared by many vectors, so implementations must be safe
// for concurrent use even though a single ByteVector is not.
type MetricsCollector interface {
	// RecordGrow is called after every storage resize attempt.
	// err is nil if the allocator satisfied the request.
	RecordGrow(from, to int, duration time.Duration, err error)

	// RecordCopy is called after each Copy or Clone.
	RecordCopy(records int, duration time.Duration, err error)

	// RecordRelease is called when storage is returned to the allocator.
	RecordRelease(bytes int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGrow(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCopy(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordRelease(int)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GrowCount       atomic.Int64
	GrowErrors      atomic.Int64
	GrowTotalNanos  atomic.Int64
	RecordsReserved atomic.Int64 // Capacity added by successful grows
	CopyCount       atomic.Int64
	CopyErrors      atomic.Int64
	RecordsCopied   atomic.Int64
	ReleaseCount    atomic.Int64
	BytesReleased   atomic.Int64
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(from, to int, duration time.Duration, err error) {
	b.GrowCount.Add(1)
	b.GrowTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GrowErrors.Add(1)
		return
	}
	b.RecordsReserved.Add(int64(to - from))
}

// RecordCopy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCopy(records int, duration time.Duration, err error) {
	b.CopyCount.Add(1)
	if err != nil {
		b.CopyErrors.Add(1)
		return
	}
	b.RecordsCopied.Add(int64(records))
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(bytes int) {
	b.ReleaseCount.Add(1)
	b.BytesReleased.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GrowCount:       b.GrowCount.Load(),
		GrowErrors:      b.GrowErrors.Load(),
		GrowAvgNanos:    b.getAvgGrowNanos(),
		RecordsReserved: b.RecordsReserved.Load(),
		CopyCount:       b.CopyCount.Load(),
		CopyErrors:      b.CopyErrors.Load(),
		RecordsCopied:   b.RecordsCopied.Load(),
		ReleaseCount:    b.ReleaseCount.Load(),
		BytesReleased:   b.BytesReleased.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgGrowNanos() int64 {
	count := b.GrowCount.Load()
	if count == 0 {
		return 0
	}
	return b.GrowTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GrowCount       int64
	GrowErrors      int64
	GrowAvgNanos    int64
	RecordsReserved int64
	CopyCount       int64
	CopyErrors      int64
	RecordsCopied   int64
	ReleaseCount    int64
	BytesReleased   int64
}
