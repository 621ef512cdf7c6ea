// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Fetch outcome labels, mirrored from status.Outcome.
const (
	OutcomeNormal       = "normal"
	OutcomeDelayed      = "delayed"
	OutcomeUnreachable  = "unreachable"
	OutcomeUnconfigured = "unconfigured"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Status fetcher metrics
	IncStatusFetch(outcome string)
	ObserveStatusFetchDuration(duration time.Duration)

	// Dashboard metrics
	ObserveDashboardRender(lines int, duration time.Duration)

	// Account and registry metrics
	IncUserRegistered()
	IncLogin(success bool)
	IncLinesAdded(n int)
	IncLinesRemoved(n int)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
