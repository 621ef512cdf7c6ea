package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	FetchNormal       uint64
	FetchDelayed      uint64
	FetchUnreachable  uint64
	FetchUnconfigured uint64

	FetchDurationCount   uint64
	FetchDurationTotalNs int64

	DashboardRenders       uint64
	DashboardLines         uint64
	DashboardRenderTotalNs int64

	UsersRegistered uint64
	LoginsSucceeded uint64
	LoginsFailed    uint64
	LinesAdded      uint64
	LinesRemoved    uint64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint
// and is used by tests to assert on recorded events.
type InMemoryRecorder struct {
	fetchNormal       uint64
	fetchDelayed      uint64
	fetchUnreachable  uint64
	fetchUnconfigured uint64

	fetchDurationCount   uint64
	fetchDurationTotalNs int64

	dashboardRenders       uint64
	dashboardLines         uint64
	dashboardRenderTotalNs int64

	usersRegistered uint64
	loginsSucceeded uint64
	loginsFailed    uint64
	linesAdded      uint64
	linesRemoved    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		FetchNormal:            atomic.LoadUint64(&m.fetchNormal),
		FetchDelayed:           atomic.LoadUint64(&m.fetchDelayed),
		FetchUnreachable:       atomic.LoadUint64(&m.fetchUnreachable),
		FetchUnconfigured:      atomic.LoadUint64(&m.fetchUnconfigured),
		FetchDurationCount:     atomic.LoadUint64(&m.fetchDurationCount),
		FetchDurationTotalNs:   atomic.LoadInt64(&m.fetchDurationTotalNs),
		DashboardRenders:       atomic.LoadUint64(&m.dashboardRenders),
		DashboardLines:         atomic.LoadUint64(&m.dashboardLines),
		DashboardRenderTotalNs: atomic.LoadInt64(&m.dashboardRenderTotalNs),
		UsersRegistered:        atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:        atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:           atomic.LoadUint64(&m.loginsFailed),
		LinesAdded:             atomic.LoadUint64(&m.linesAdded),
		LinesRemoved:           atomic.LoadUint64(&m.linesRemoved),
	}
}

// IncStatusFetch increments the counter for the given fetch outcome.
// Unknown outcomes are dropped.
func (m *InMemoryRecorder) IncStatusFetch(outcome string) {
	switch outcome {
	case OutcomeNormal:
		atomic.AddUint64(&m.fetchNormal, 1)
	case OutcomeDelayed:
		atomic.AddUint64(&m.fetchDelayed, 1)
	case OutcomeUnreachable:
		atomic.AddUint64(&m.fetchUnreachable, 1)
	case OutcomeUnconfigured:
		atomic.AddUint64(&m.fetchUnconfigured, 1)
	}
}

// ObserveStatusFetchDuration records one fetch duration.
func (m *InMemoryRecorder) ObserveStatusFetchDuration(duration time.Duration) {
	atomic.AddUint64(&m.fetchDurationCount, 1)
	atomic.AddInt64(&m.fetchDurationTotalNs, duration.Nanoseconds())
}

// ObserveDashboardRender records one dashboard render.
func (m *InMemoryRecorder) ObserveDashboardRender(lines int, duration time.Duration) {
	atomic.AddUint64(&m.dashboardRenders, 1)
	atomic.AddUint64(&m.dashboardLines, uint64(lines))
	atomic.AddInt64(&m.dashboardRenderTotalNs, duration.Nanoseconds())
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for the given result.
func (m *InMemoryRecorder) IncLogin(success bool) {
	if success {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncLinesAdded adds n to the lines added counter.
func (m *InMemoryRecorder) IncLinesAdded(n int) {
	if n > 0 {
		atomic.AddUint64(&m.linesAdded, uint64(n))
	}
}

// IncLinesRemoved adds n to the lines removed counter.
func (m *InMemoryRecorder) IncLinesRemoved(n int) {
	if n > 0 {
		atomic.AddUint64(&m.linesRemoved, uint64(n))
	}
}
