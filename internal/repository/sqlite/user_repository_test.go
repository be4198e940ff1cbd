package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/domain"
	"gatehouse/internal/repository"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func seedUser(t *testing.T, repo repository.UserRepository) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     "alice99",
		Email:        "a@x.com",
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo := newTestRepo(t)
	user := seedUser(t, repo)

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestCreateUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedUser(t, repo)

	err := repo.Create(ctx, &domain.User{
		Username:     "alice99",
		Email:        "different@x.com",
		PasswordHash: "h",
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	err = repo.Create(ctx, &domain.User{
		Username:     "different",
		Email:        "a@x.com",
		PasswordHash: "h",
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestFindByEmailIncludesDigest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	created := seedUser(t, repo)

	user, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.PasswordHash, user.PasswordHash)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByIDExcludesDigest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	created := seedUser(t, repo)

	user, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice99", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByUsernameOrEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	created := seedUser(t, repo)

	byUsername, err := repo.FindByUsernameOrEmail(ctx, "alice99", "nobody@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)
	assert.Empty(t, byUsername.PasswordHash)

	byEmail, err := repo.FindByUsernameOrEmail(ctx, "nobody", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByUsernameOrEmail(ctx, "nobody", "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsernameCaseSensitivity(t *testing.T) {
	// usernames are stored and matched case-sensitively
	ctx := context.Background()
	repo := newTestRepo(t)
	seedUser(t, repo)

	err := repo.Create(ctx, &domain.User{
		Username:     "ALICE99",
		Email:        "upper@x.com",
		PasswordHash: "h",
	})
	assert.NoError(t, err)
}
