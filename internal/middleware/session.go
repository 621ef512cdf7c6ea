package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/railwatch/railwatch/internal/auth"
	"github.com/railwatch/railwatch/internal/model"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionResolver maps a session token to its identity. Implemented by
// cache.Cache.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*model.Identity, error)
}

// SessionConfig holds configuration for the session gate.
type SessionConfig struct {
	Logger     *slog.Logger
	Sessions   SessionResolver
	CookieName string
	// NotFound is the resolver's sentinel for an unknown or expired session.
	// Other lookup errors are logged at error level; both redirect to login.
	NotFound error
}

// RequireSession returns a middleware that only lets requests with a live
// session through. Everything else gets 303 See Other to LoginPath.
// On success the identity is stored with auth.ContextWithIdentity.
func RequireSession(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || !auth.ValidSessionToken(cookie.Value) {
				redirectToLogin(w, r)
				return
			}

			id, err := cfg.Sessions.GetSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, cfg.NotFound) {
					cfg.Logger.ErrorContext(r.Context(), "session lookup failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				redirectToLogin(w, r)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
