package opfsgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLookup is called after each handle resolution (file or directory).
	// duration is the total time taken, err is nil if successful.
	RecordLookup(kind EntryKind, duration time.Duration, err error)

	// RecordRemove is called after each entry removal.
	RecordRemove(duration time.Duration, err error)

	// RecordRead is called after each file read. n is the number of bytes
	// returned.
	RecordRead(n int, duration time.Duration, err error)

	// RecordWrite is called after each stream write. n is the number of bytes
	// written.
	RecordWrite(n int, duration time.Duration, err error)

	// RecordEnumerate is called after a directory enumeration snapshot is
	// taken. n is the number of entries in the snapshot.
	RecordEnumerate(n int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(EntryKind, time.Duration, error) {}
func (NoopMetricsCollector) RecordRemove(time.Duration, error)           {}
func (NoopMetricsCollector) RecordRead(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordWrite(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordEnumerate(int, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LookupCount     atomic.Int64
	LookupErrors    atomic.Int64
	RemoveCount     atomic.Int64
	RemoveErrors    atomic.Int64
	ReadCount       atomic.Int64
	ReadBytes       atomic.Int64
	ReadErrors      atomic.Int64
	WriteCount      atomic.Int64
	WriteBytes      atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
	EnumerateCount  atomic.Int64
	EnumerateErrors atomic.Int64
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(_ EntryKind, _ time.Duration, err error) {
	b.LookupCount.Add(1)
	if err != nil {
		b.LookupErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(_ time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(n int, _ time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadBytes.Add(int64(n))
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(n int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteBytes.Add(int64(n))
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordEnumerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEnumerate(n int, _ time.Duration, err error) {
	b.EnumerateCount.Add(1)
	if err != nil {
		b.EnumerateErrors.Add(1)
	}
}
