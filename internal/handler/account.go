package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/railwatch/railwatch/internal/auth"
	"github.com/railwatch/railwatch/internal/middleware"
	"github.com/railwatch/railwatch/internal/model"
	"github.com/railwatch/railwatch/internal/service"
)

// Accounts registers and verifies users. Implemented by service.AccountService.
type Accounts interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Verify(ctx context.Context, username, password string) (*model.Identity, error)
}

// SessionStore creates and destroys sessions. Implemented by cache.Cache.
type SessionStore interface {
	CreateSession(ctx context.Context, token string, id *model.Identity, ttl time.Duration) error
	DeleteSession(ctx context.Context, token string) error
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AccountHandler handles registration, login and logout.
type AccountHandler struct {
	accounts Accounts
	sessions SessionStore
	cookie   CookieConfig
	tmpl     *Templates
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts Accounts, sessions SessionStore, cookie CookieConfig, tmpl *Templates, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		sessions: sessions,
		cookie:   cookie,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// RegisterForm handles GET /register.
func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := h.tmpl.render(w, http.StatusOK, pageRegister, nil); err != nil {
		serverError(w, r, h.logger, "render register page", err)
	}
}

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	_, err := h.accounts.Register(r.Context(), username, password)
	switch {
	case err == nil:
		seeOther(w, r, "/login")
	case errors.Is(err, service.ErrUserExists):
		h.logger.InfoContext(r.Context(), "registration rejected",
			slog.String("reason", "duplicate_username"),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeText(w, http.StatusConflict, service.ErrUserExists.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeText(w, http.StatusBadRequest, "username and password are required")
	case errors.Is(err, service.ErrUsernameTooLong):
		writeText(w, http.StatusBadRequest, fmt.Sprintf("username must be at most %d characters", service.MaxUsernameLength))
	default:
		serverError(w, r, h.logger, "registration failed", err)
	}
}

// LoginForm handles GET /login.
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := h.tmpl.render(w, http.StatusOK, pageLogin, nil); err != nil {
		serverError(w, r, h.logger, "render login page", err)
	}
}

// Login handles POST /login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	id, err := h.accounts.Verify(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.WarnContext(r.Context(), "login failed",
				slog.String("ip", r.RemoteAddr),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
			writeText(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
			return
		}
		serverError(w, r, h.logger, "login failed", err)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		serverError(w, r, h.logger, "generate session token", err)
		return
	}
	if err := h.sessions.CreateSession(r.Context(), token, id, h.cookie.TTL); err != nil {
		serverError(w, r, h.logger, "create session", err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.cookie.TTL.Seconds())))

	h.logger.InfoContext(r.Context(), "login succeeded",
		slog.String("user_id", id.UserID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	seeOther(w, r, "/dashboard")
}

// Logout handles POST /logout. The cookie is always cleared, even when the
// server-side session is already gone.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.cookie.Name); err == nil && auth.ValidSessionToken(c.Value) {
		if err := h.sessions.DeleteSession(r.Context(), c.Value); err != nil {
			h.logger.ErrorContext(r.Context(), "delete session",
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	seeOther(w, r, "/")
}

func (h *AccountHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
