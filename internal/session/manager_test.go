package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(store.Close)
	return NewManager(store, "test-secret")
}

func TestCreateAndResolve(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = m.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := m.Create(ctx, "user-1")
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestResolveExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(store.Close)
	m := NewManager(store, "test-secret")

	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	// age the record past its hard lifetime
	key := m.hashToken(token)
	now := time.Now().UTC()
	err = store.Put(ctx, key, domain.Session{
		UserID:    "user-1",
		CreatedAt: now.Add(-25 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}, Retention)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	// the expired record was removed, not just ignored
	_, err = store.Get(ctx, key)
	assert.Error(t, err)
}

func TestDestroyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, token))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	// destroying again, or destroying nothing, is fine
	require.NoError(t, m.Destroy(ctx, token))
	require.NoError(t, m.Destroy(ctx, ""))
}

func TestDifferentSecretsResolveNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	t.Cleanup(store.Close)

	token, err := NewManager(store, "secret-a").Create(ctx, "user-1")
	require.NoError(t, err)

	_, err = NewManager(store, "secret-b").Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}
