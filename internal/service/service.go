// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/railwatch/railwatch/internal/model"
)

// Service errors.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTooLong    = errors.New("username is too long")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore persists user accounts. Implemented by repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// LineStore persists followed lines. Implemented by repository.Repository.
type LineStore interface {
	AddLines(ctx context.Context, lines []*model.Line) (int, error)
	ListLinesByOwner(ctx context.Context, ownerID string) ([]*model.Line, error)
	DeleteLines(ctx context.Context, ownerID string, ids []string) (int, error)
}

// Column limits shared with the schema, in characters.
const (
	MaxUsernameLength = 100
	maxNameLength     = 100
	maxURLLength      = 255
)

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}
