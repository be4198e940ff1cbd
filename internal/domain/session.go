package domain

import "time"

// Session binds an opaque browser token to an authenticated user. Only the
// token travels to the client (as the cookie value); everything else lives
// server-side in the session store.
type Session struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's hard lifetime has passed at ref.
func (s Session) Expired(ref time.Time) bool {
	return ref.After(s.ExpiresAt)
}
