package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/railwatch/railwatch/internal/auth"
	"github.com/railwatch/railwatch/internal/metrics"
	"github.com/railwatch/railwatch/internal/model"
	"github.com/railwatch/railwatch/internal/repository"
)

// AccountService registers users and verifies their credentials.
type AccountService struct {
	users   UserStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, logger *slog.Logger, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		users:   users,
		logger:  logger,
		metrics: recorder,
	}
}

// Register creates a new account. The username match is exact and
// case-sensitive; only a salted hash of the password is stored.
func (s *AccountService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if tooLong(username, MaxUsernameLength) {
		return nil, ErrUsernameTooLong
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.metrics.IncUserRegistered()
	s.logger.InfoContext(ctx, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Verify returns the identity for a matching username and password.
// Unknown users and wrong passwords both yield ErrInvalidCredentials after
// the same amount of hashing work.
func (s *AccountService) Verify(ctx context.Context, username, password string) (*model.Identity, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.VerifyDummy(password)
			s.metrics.IncLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password hash is unusable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}
	if !match {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin(true)
	return user.Identity(), nil
}

// EnsureUser registers username unless it already exists. An existing
// account is never modified. Reports whether a user was created.
func (s *AccountService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Register(ctx, username, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserExists):
		return false, nil
	default:
		return false, err
	}
}
