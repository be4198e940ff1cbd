// Package session issues, resolves, and destroys server-side sessions bound
// to an opaque browser cookie token.
package session

import (
	"context"
	"errors"
	"time"

	"gatehouse/internal/domain"
)

// ErrNoSession is returned when a token does not resolve to a live session,
// whether it is absent, expired, or tampered with.
var ErrNoSession = errors.New("no active session")

var errKeyNotFound = errors.New("session key not found")

// Store is a key-value-with-TTL backing store for session records. The TTL
// passed to Put is a retention sweep for idle records, not the security
// boundary; the Manager enforces the hard lifetime itself.
type Store interface {
	Put(ctx context.Context, key string, sess domain.Session, ttl time.Duration) error
	Get(ctx context.Context, key string) (domain.Session, error)
	Delete(ctx context.Context, key string) error
}
