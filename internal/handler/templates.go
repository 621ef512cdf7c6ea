package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// errResponseStarted marks a failure after the status line was sent.
var errResponseStarted = errors.New("response already started")

// Page names.
const (
	pageIndex     = "index.html"
	pageRegister  = "register.html"
	pageLogin     = "login.html"
	pageDashboard = "dashboard.html"
	pageLineForm  = "line_form.html"
)

// Templates holds one parsed template set per page, each combined with the
// shared layout.
type Templates struct {
	pages map[string]*template.Template
}

// ParseTemplates parses every page against the layout.
func ParseTemplates() (*Templates, error) {
	pages := []string{pageIndex, pageRegister, pageLogin, pageDashboard, pageLineForm}
	t := &Templates{pages: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}

	return t, nil
}

// MustParseTemplates is ParseTemplates for use at startup and in tests.
func MustParseTemplates() *Templates {
	t, err := ParseTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

// render executes page into a buffer first so a template error never
// produces a half-written 200.
func (t *Templates) render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: write %s: %w", errResponseStarted, page, err)
	}
	return nil
}
