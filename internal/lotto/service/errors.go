package service

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidSecondFactor = errors.New("invalid one-time password")
	ErrLockedOut           = errors.New("too many failed login attempts")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("forbidden")
	ErrDuplicateEmail      = errors.New("email address already registered")
	ErrDrawNotFound        = errors.New("draw not found")
	ErrDrawAlreadyPlayed   = errors.New("draw already played")
	ErrSessionInvalid      = errors.New("session missing, expired or revoked")

	// ErrTransaction marks a persistence or audit failure. The operation had
	// no effect and may be retried.
	ErrTransaction = errors.New("transaction failed")
)

func nowFrom(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}
