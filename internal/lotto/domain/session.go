package domain

import "time"

// MaxLoginAttempts is the number of failed attempts a login session allows
// before it locks. The lock lasts for the rest of the session.
const MaxLoginAttempts = 3

// LoginSession carries the per-client login state between requests. Only the
// fingerprint of the opaque session token is ever stored.
type LoginSession struct {
	ID             string
	TokenHash      string
	FailedAttempts int

	// Set once the session has authenticated.
	UserID string
	Role   Role

	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}

func (s LoginSession) LockedOut() bool {
	return s.FailedAttempts >= MaxLoginAttempts
}

func (s LoginSession) Authenticated() bool {
	return s.UserID != ""
}

func (s LoginSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RemainingAttempts never goes below zero.
func (s LoginSession) RemainingAttempts() int {
	return max(MaxLoginAttempts-s.FailedAttempts, 0)
}
