package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/railwatch/railwatch/internal/auth"
	"github.com/railwatch/railwatch/internal/catalog"
	"github.com/railwatch/railwatch/internal/model"
	"github.com/railwatch/railwatch/internal/service"
)

// DashboardRenderer builds a user's dashboard. Implemented by
// service.DashboardService.
type DashboardRenderer interface {
	Render(ctx context.Context, id *model.Identity) (*service.Dashboard, error)
}

// LineManager manages followed lines. Implemented by service.LineService.
type LineManager interface {
	AddLines(ctx context.Context, ownerID string, entries []string) (int, error)
	List(ctx context.Context, ownerID string) ([]*model.Line, error)
	Remove(ctx context.Context, ownerID string, lineIDs []string) (int, error)
}

// DashboardHandler serves the pages behind the session gate.
type DashboardHandler struct {
	dashboard DashboardRenderer
	lines     LineManager
	catalog   []catalog.Group
	tmpl      *Templates
	logger    *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard DashboardRenderer, lines LineManager, groups []catalog.Group, tmpl *Templates, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		lines:     lines,
		catalog:   groups,
		tmpl:      tmpl,
		logger:    logger,
	}
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := auth.MustIdentityFromContext(r.Context())

	dash, err := h.dashboard.Render(r.Context(), id)
	if err != nil {
		serverError(w, r, h.logger, "render dashboard", err)
		return
	}

	if err := h.tmpl.render(w, http.StatusOK, pageDashboard, dash); err != nil {
		serverError(w, r, h.logger, "render dashboard page", err)
	}
}

type lineOption struct {
	Line     string
	Value    string
	Followed bool
}

type lineGroup struct {
	Company string
	Options []lineOption
}

type lineFormPage struct {
	Groups []lineGroup
}

// LineForm handles GET /dashboard/line-From.
func (h *DashboardHandler) LineForm(w http.ResponseWriter, r *http.Request) {
	id := auth.MustIdentityFromContext(r.Context())

	followed, err := h.lines.List(r.Context(), id.UserID)
	if err != nil {
		serverError(w, r, h.logger, "list lines", err)
		return
	}

	if err := h.tmpl.render(w, http.StatusOK, pageLineForm, buildLineForm(h.catalog, followed)); err != nil {
		serverError(w, r, h.logger, "render line form", err)
	}
}

func buildLineForm(groups []catalog.Group, followed []*model.Line) lineFormPage {
	have := make(map[[2]string]bool, len(followed))
	for _, l := range followed {
		have[[2]string{l.CompanyName, l.LineName}] = true
	}

	page := lineFormPage{Groups: make([]lineGroup, 0, len(groups))}
	for _, g := range groups {
		lg := lineGroup{Company: g.Company, Options: make([]lineOption, 0, len(g.Entries))}
		for _, e := range g.Entries {
			lg.Options = append(lg.Options, lineOption{
				Line:     e.Line,
				Value:    e.FormValue(),
				Followed: have[[2]string{e.Company, e.Line}],
			})
		}
		page.Groups = append(page.Groups, lg)
	}
	return page
}

// AddLines handles POST /dashboard/line-form.
func (h *DashboardHandler) AddLines(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := auth.MustIdentityFromContext(r.Context())

	if _, err := h.lines.AddLines(r.Context(), id.UserID, r.PostForm["selected_lines"]); err != nil {
		serverError(w, r, h.logger, "add lines", err)
		return
	}

	seeOther(w, r, "/dashboard")
}

// DeleteLines handles POST /dashboard/lines/delete.
func (h *DashboardHandler) DeleteLines(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := auth.MustIdentityFromContext(r.Context())

	if _, err := h.lines.Remove(r.Context(), id.UserID, r.PostForm["line_ids"]); err != nil {
		serverError(w, r, h.logger, "remove lines", err)
		return
	}

	seeOther(w, r, "/dashboard")
}
