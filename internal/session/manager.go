package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gatehouse/internal/domain"
)

const (
	// Lifetime is the hard maximum session age, measured from creation and
	// independent of activity.
	Lifetime = 24 * time.Hour
	// Retention is how long the backing store keeps an idle record before
	// sweeping it. Cleanup only; Lifetime is the security boundary.
	Retention = 14 * 24 * time.Hour

	tokenBytes = 32
)

// Manager issues and resolves session tokens against a Store. Records are
// keyed by a keyed hash of the token, so neither the store contents nor a
// forged token of the attacker's choosing yields a usable cookie value.
type Manager struct {
	store  Store
	secret []byte
}

// NewManager creates a Manager keying token hashes with the given secret.
func NewManager(store Store, secret string) *Manager {
	return &Manager{store: store, secret: []byte(secret)}
}

// Create persists a new session for userID and returns the cookie token.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	now := time.Now().UTC()
	sess := domain.Session{
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(Lifetime),
	}
	if err := m.store.Put(ctx, m.hashToken(token), sess, Retention); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id owning the session token. Absent, expired, and
// tampered tokens all come back as ErrNoSession; expired records are removed
// on sight.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	key := m.hashToken(token)
	sess, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errKeyNotFound) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("resolve session: %w", err)
	}
	if sess.Expired(time.Now().UTC()) {
		_ = m.store.Delete(ctx, key)
		return "", ErrNoSession
	}
	return sess.UserID, nil
}

// Destroy removes the session for token. Destroying an absent session is not
// an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, m.hashToken(token)); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (m *Manager) hashToken(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
