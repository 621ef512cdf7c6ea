// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/railwatch/railwatch/internal/middleware"
)

// Handler serves the public pages and the fallback responses.
type Handler struct {
	tmpl   *Templates
	logger *slog.Logger
}

// New creates a new Handler instance.
func New(tmpl *Templates, logger *slog.Logger) *Handler {
	return &Handler{tmpl: tmpl, logger: logger}
}

// Index renders the landing page.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if err := h.tmpl.render(w, http.StatusOK, pageIndex, nil); err != nil {
		serverError(w, r, h.logger, "render landing page", err)
	}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusNotFound, "page not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeText writes a plain text response with the given status code.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// serverError logs err and answers 500 without exposing details. When the
// response has already started it only logs.
func serverError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	if errors.Is(err, errResponseStarted) {
		return
	}
	writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// parseForm parses a POST form, answering 413 or 400 itself on failure.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeText(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeText(w, http.StatusBadRequest, "invalid form submission")
		return false
	}
	return true
}

// seeOther redirects after a successful POST.
func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
