package repository

import (
	"context"
	"errors"

	"gatehouse/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no user.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when an insert violates the unique index on
	// username or email. The store's index, not the caller's pre-check, is
	// what closes the race between two concurrent signups.
	ErrConflict = errors.New("username or email already registered")
)

// UserRepository defines persistence operations for User entities.
//
// FindByEmail is the only read that loads the password digest; FindByID and
// FindByUsernameOrEmail return projections with the digest omitted.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
