package handler

import (
	"fmt"
	"net/http"

	"github.com/railwatch/railwatch/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "railwatch_status_fetches_total{outcome=\"%s\"} %d\n", metrics.OutcomeNormal, snap.FetchNormal)
	writeMetric(w, "railwatch_status_fetches_total{outcome=\"%s\"} %d\n", metrics.OutcomeDelayed, snap.FetchDelayed)
	writeMetric(w, "railwatch_status_fetches_total{outcome=\"%s\"} %d\n", metrics.OutcomeUnreachable, snap.FetchUnreachable)
	writeMetric(w, "railwatch_status_fetches_total{outcome=\"%s\"} %d\n", metrics.OutcomeUnconfigured, snap.FetchUnconfigured)
	writeMetric(w, "railwatch_status_fetch_duration_seconds_count %d\n", snap.FetchDurationCount)
	writeMetric(w, "railwatch_status_fetch_duration_seconds_sum %.6f\n", float64(snap.FetchDurationTotalNs)/1e9)

	writeMetric(w, "railwatch_dashboard_renders_total %d\n", snap.DashboardRenders)
	writeMetric(w, "railwatch_dashboard_lines_total %d\n", snap.DashboardLines)
	writeMetric(w, "railwatch_dashboard_render_duration_seconds_sum %.6f\n", float64(snap.DashboardRenderTotalNs)/1e9)

	writeMetric(w, "railwatch_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "railwatch_logins_total{result=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "railwatch_logins_total{result=\"failure\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "railwatch_lines_added_total %d\n", snap.LinesAdded)
	writeMetric(w, "railwatch_lines_removed_total %d\n", snap.LinesRemoved)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
