package adminauth

import "sync/atomic"

// MetricID defines a public type used by adminauth APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricCodeRequestSuccess is an exported constant or variable used by the session engine.
	MetricCodeRequestSuccess MetricID = iota
	// MetricCodeRequestFailure is an exported constant or variable used by the session engine.
	MetricCodeRequestFailure
	// MetricCodeResendBlocked is an exported constant or variable used by the session engine.
	MetricCodeResendBlocked
	// MetricVerifySuccess is an exported constant or variable used by the session engine.
	MetricVerifySuccess
	// MetricVerifyFailure is an exported constant or variable used by the session engine.
	MetricVerifyFailure
	// MetricSessionAuthenticated is an exported constant or variable used by the session engine.
	MetricSessionAuthenticated
	// MetricSessionUnauthenticated is an exported constant or variable used by the session engine.
	MetricSessionUnauthenticated
	// MetricSessionCheckFailure counts checks that failed closed (profile fetch or storage errors).
	MetricSessionCheckFailure
	// MetricSignOut is an exported constant or variable used by the session engine.
	MetricSignOut
	// MetricDevBypassUsed is an exported constant or variable used by the session engine.
	MetricDevBypassUsed

	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by adminauth APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot defines a public type used by adminauth APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a counter set; a disabled set makes every operation a
// no-op so callers never branch.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether the counter set records anything.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter for id. Safe for concurrent use.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value returns the current count for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters into an immutable view for exporters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil {
		return snapshot
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snapshot.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snapshot
}
