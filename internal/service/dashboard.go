package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/railwatch/railwatch/internal/metrics"
	"github.com/railwatch/railwatch/internal/model"
	"github.com/railwatch/railwatch/internal/status"
)

// JST is the fixed UTC+9 zone the dashboard clock is shown in.
var JST = time.FixedZone("JST", 9*60*60)

// updateTimeLayout renders hour:minute.
const updateTimeLayout = "15:04"

// StatusFetcher classifies a line's status page. Implemented by status.Fetcher.
type StatusFetcher interface {
	Fetch(ctx context.Context, lineName, statusURL string) status.Result
}

// LineStatus is one row of the dashboard.
type LineStatus struct {
	ID      string
	Name    string
	Outcome status.Outcome
	Message string
	Detail  string
	InfoURL string
}

// Dashboard is the display model for a user's dashboard.
type Dashboard struct {
	Username  string
	Statuses  []LineStatus
	UpdatedAt string
}

// DashboardService assembles dashboards.
type DashboardService struct {
	lines   LineStore
	fetcher StatusFetcher
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time

	fetchBudget time.Duration
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(lines LineStore, fetcher StatusFetcher, logger *slog.Logger, recorder metrics.Recorder) *DashboardService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		lines:   lines,
		fetcher: fetcher,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// SetFetchBudget caps the total time Render spends fetching. Zero means no
// cap beyond the request context.
func (s *DashboardService) SetFetchBudget(d time.Duration) {
	s.fetchBudget = d
}

// Render fetches every followed line's status, one after another, and
// returns the display model. Fetch failures end up in the rows; only a
// storage failure is returned as an error.
func (s *DashboardService) Render(ctx context.Context, id *model.Identity) (*Dashboard, error) {
	start := time.Now()

	lines, err := s.lines.ListLinesByOwner(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	s.logFollowedLines(ctx, id, lines)

	fetchCtx := ctx
	if s.fetchBudget > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchBudget)
		defer cancel()
	}

	statuses := make([]LineStatus, 0, len(lines))
	for _, line := range lines {
		res := s.fetcher.Fetch(fetchCtx, line.LineName, line.InfoURL)
		statuses = append(statuses, LineStatus{
			ID:      line.ID,
			Name:    line.DisplayName(),
			Outcome: res.Outcome,
			Message: res.Message,
			Detail:  res.Detail,
			InfoURL: line.InfoURL,
		})
	}

	if fetchCtx.Err() != nil && ctx.Err() == nil {
		s.logger.WarnContext(ctx, "dashboard fetch budget exhausted",
			slog.String("username", id.Username),
			slog.Int("lines", len(lines)),
			slog.Duration("budget", s.fetchBudget),
		)
	}

	s.metrics.ObserveDashboardRender(len(lines), time.Since(start))

	return &Dashboard{
		Username:  id.Username,
		Statuses:  statuses,
		UpdatedAt: s.now().In(JST).Format(updateTimeLayout),
	}, nil
}

func (s *DashboardService) logFollowedLines(ctx context.Context, id *model.Identity, lines []*model.Line) {
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	if len(lines) == 0 {
		s.logger.DebugContext(ctx, "user follows no lines", slog.String("username", id.Username))
		return
	}
	for _, line := range lines {
		s.logger.DebugContext(ctx, "followed line",
			slog.String("username", id.Username),
			slog.String("line_id", line.ID),
			slog.String("company", line.CompanyName),
			slog.String("line", line.LineName),
		)
	}
}
