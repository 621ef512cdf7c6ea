package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncStatusFetch is a no-op.
func (n *NoopRecorder) IncStatusFetch(outcome string) {}

// ObserveStatusFetchDuration is a no-op.
func (n *NoopRecorder) ObserveStatusFetchDuration(duration time.Duration) {}

// ObserveDashboardRender is a no-op.
func (n *NoopRecorder) ObserveDashboardRender(lines int, duration time.Duration) {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(success bool) {}

// IncLinesAdded is a no-op.
func (n *NoopRecorder) IncLinesAdded(count int) {}

// IncLinesRemoved is a no-op.
func (n *NoopRecorder) IncLinesRemoved(count int) {}
