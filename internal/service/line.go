package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/railwatch/railwatch/internal/catalog"
	"github.com/railwatch/railwatch/internal/metrics"
	"github.com/railwatch/railwatch/internal/model"
)

// Entry is one parsed line selection.
type Entry struct {
	Company string
	Line    string
	URL     string
}

// ParseEntry splits "company|line|url". Anything other than exactly three
// fields, or a field longer than its column, is malformed. Lengths are
// counted in characters to match the VARCHAR columns.
func ParseEntry(s string) (Entry, bool) {
	fields := strings.Split(s, catalog.EntrySeparator)
	if len(fields) != 3 {
		return Entry{}, false
	}
	e := Entry{Company: fields[0], Line: fields[1], URL: fields[2]}
	if tooLong(e.Company, maxNameLength) || tooLong(e.Line, maxNameLength) || tooLong(e.URL, maxURLLength) {
		return Entry{}, false
	}
	return e, true
}

// LineService manages the lines a user follows.
type LineService struct {
	store   LineStore
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewLineService creates a new LineService.
func NewLineService(store LineStore, logger *slog.Logger, recorder metrics.Recorder) *LineService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LineService{
		store:   store,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// AddLines follows every well-formed entry not already followed by ownerID.
// Malformed entries are skipped silently (debug log only). All inserts are
// committed together. Returns the number of lines added.
func (s *LineService) AddLines(ctx context.Context, ownerID string, entries []string) (int, error) {
	now := s.now().UTC()
	seen := make(map[[2]string]bool, len(entries))
	lines := make([]*model.Line, 0, len(entries))

	for _, raw := range entries {
		e, ok := ParseEntry(raw)
		if !ok {
			s.logger.DebugContext(ctx, "skipping malformed line entry",
				slog.String("owner_id", ownerID),
				slog.String("entry", raw),
			)
			continue
		}

		key := [2]string{e.Company, e.Line}
		if seen[key] {
			continue
		}
		seen[key] = true

		lines = append(lines, &model.Line{
			ID:          ulid.Make().String(),
			OwnerID:     ownerID,
			CompanyName: e.Company,
			LineName:    e.Line,
			InfoURL:     e.URL,
			CreatedAt:   now,
		})
	}

	if len(lines) == 0 {
		return 0, nil
	}

	added, err := s.store.AddLines(ctx, lines)
	if err != nil {
		return 0, err
	}

	s.metrics.IncLinesAdded(added)
	s.logger.InfoContext(ctx, "lines_added",
		slog.String("owner_id", ownerID),
		slog.Int("submitted", len(entries)),
		slog.Int("added", added),
	)

	return added, nil
}

// List returns the lines followed by ownerID, oldest first.
func (s *LineService) List(ctx context.Context, ownerID string) ([]*model.Line, error) {
	return s.store.ListLinesByOwner(ctx, ownerID)
}

// Remove unfollows the given lines. IDs not owned by ownerID are ignored.
func (s *LineService) Remove(ctx context.Context, ownerID string, lineIDs []string) (int, error) {
	ids := make([]string, 0, len(lineIDs))
	for _, id := range lineIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	removed, err := s.store.DeleteLines(ctx, ownerID, ids)
	if err != nil {
		return 0, err
	}

	s.metrics.IncLinesRemoved(removed)
	s.logger.InfoContext(ctx, "lines_removed",
		slog.String("owner_id", ownerID),
		slog.Int("removed", removed),
	)

	return removed, nil
}
