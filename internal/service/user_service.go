package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gatehouse/internal/domain"
	"gatehouse/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("already registered")
)

// DefaultHashCost is the bcrypt work factor, tuned so a single hash costs on
// the order of a few hundred milliseconds.
const DefaultHashCost = 12

// Store calls are bounded so an unreachable database turns into a transient
// error instead of a hung request.
const opTimeout = 3 * time.Second

// bcrypt consumes at most 72 bytes of plaintext; x/crypto rejects anything
// longer instead of silently truncating like the classic implementations.
// Passwords have no upper bound here, so truncate before hashing and
// verifying to keep both paths consistent.
const bcryptMaxBytes = 72

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}

// UserService describes user lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	hashCost int
}

// NewUserService builds a UserService hashing at the given bcrypt cost; pass
// 0 for DefaultHashCost.
func NewUserService(users repository.UserRepository, hashCost int) UserService {
	if hashCost == 0 {
		hashCost = DefaultHashCost
	}
	return &userService{users: users, hashCost: hashCost}
}

// Signup creates a user from already-validated, normalized fields. The
// uniqueness pre-check is an optimization for a friendlier error; the unique
// index behind repository.Create is what closes the concurrent-signup race.
func (s *userService) Signup(ctx context.Context, username, email, password string) (*domain.User, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if _, err := s.users.FindByUsernameOrEmail(lookupCtx, username, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	createCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.users.Create(createCtx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Authenticate verifies email/password and returns the user without its
// digest. Verification fails closed: any bcrypt error is a mismatch.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	lookupCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	user, err := s.users.FindByEmail(lookupCtx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), bcryptInput(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	user, err := s.users.FindByID(lookupCtx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// sanitizeUser strips the digest before a user leaves the service layer.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
