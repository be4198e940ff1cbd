package domain

import "time"

// User represents one registered account.
//
// PasswordHash carries the bcrypt digest and is only populated by lookups
// that explicitly need it (login); every other read path leaves it empty.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
