package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/railwatch/railwatch/internal/cache"
	"github.com/railwatch/railwatch/internal/config"
	"github.com/railwatch/railwatch/internal/handler"
	"github.com/railwatch/railwatch/internal/middleware"
)

type routerDeps struct {
	cfg       *config.Config
	logger    *slog.Logger
	pages     *handler.Handler
	health    *handler.HealthHandler
	metrics   *handler.MetricsHandler
	accounts  *handler.AccountHandler
	dashboard *handler.DashboardHandler
	sessions  middleware.SessionResolver
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      d.cfg.IsDevelopment(),
		MaxRequestBodySize: d.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	r.Get("/", d.pages.Index)
	r.Get("/register", d.accounts.RegisterForm)
	r.Post("/register", d.accounts.Register)
	r.Get("/login", d.accounts.LoginForm)
	r.Post("/login", d.accounts.Login)

	gate := middleware.RequireSession(middleware.SessionConfig{
		Logger:     d.logger,
		Sessions:   d.sessions,
		CookieName: d.cfg.SessionCookieName,
		NotFound:   cache.ErrSessionNotFound,
	})

	r.Group(func(r chi.Router) {
		r.Use(gate)

		r.Post("/logout", d.accounts.Logout)
		r.Get("/dashboard", d.dashboard.Show)
		// The form page path keeps its historical spelling.
		r.Get("/dashboard/line-From", d.dashboard.LineForm)
		r.Post("/dashboard/line-form", d.dashboard.AddLines)
		r.Post("/dashboard/lines/delete", d.dashboard.DeleteLines)
	})

	r.NotFound(d.pages.NotFound)
	r.MethodNotAllowed(d.pages.MethodNotAllowed)

	return r
}
