package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/metrics"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/pkg/cryptox"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP parameters shared by login verification and enrolment URIs.
const (
	totpPeriod = 30
	totpSkew   = 1
	totpDigits = otp.DigitsSix
	totpAlgo   = otp.AlgorithmSHA1
)

type Outcome string

const (
	OutcomeSucceeded           Outcome = "succeeded"
	OutcomeInvalidCredentials  Outcome = "invalid_credentials"
	OutcomeInvalidSecondFactor Outcome = "invalid_second_factor"
	OutcomeLockedOut           Outcome = "locked_out"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required,len=6"`
}

// AuthResult is the outcome of one login attempt. Session carries the
// updated attempt counter and must be persisted by the caller whatever the
// outcome.
type AuthResult struct {
	Outcome           Outcome
	Principal         *domain.Principal
	RemainingAttempts int
	Session           domain.LoginSession
}

// Err maps the outcome to its sentinel error, or nil on success.
func (r AuthResult) Err() error {
	switch r.Outcome {
	case OutcomeSucceeded:
		return nil
	case OutcomeInvalidCredentials:
		return ErrInvalidCredentials
	case OutcomeInvalidSecondFactor:
		return ErrInvalidSecondFactor
	case OutcomeLockedOut:
		return ErrLockedOut
	default:
		return ErrUnauthenticated
	}
}

type AuthService struct {
	Store   store.Store
	Audit   *audit.Logger
	Metrics *metrics.Metrics

	// Now is the clock used for TOTP validation and login timestamps.
	Now func() time.Time
}

// Authenticate checks a password and one-time code against the login
// session's attempt budget. The returned error is only set when the outcome
// could not be decided or recorded (ErrTransaction); every credential
// failure is reported through AuthResult.
func (s *AuthService) Authenticate(ctx context.Context, session domain.LoginSession, req LoginRequest) (AuthResult, error) {
	l := slogx.FromContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if session.LockedOut() {
		s.Metrics.LoginAttempt(string(OutcomeLockedOut))
		res := AuthResult{Outcome: OutcomeLockedOut, Session: session}
		if err := s.Audit.Record(ctx, audit.Event{Kind: audit.KindLoginLockedOut, Email: email}); err != nil {
			return res, fmt.Errorf("%w: %w", ErrTransaction, err)
		}
		return res, nil
	}

	// Every attempt past the lockout check costs one, whatever happens next.
	session.FailedAttempts++

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		cryptox.VerifyDummy(req.Password)
		return s.invalidCredentials(ctx, session, email)
	case err != nil:
		return AuthResult{Session: session}, fmt.Errorf("%w: lookup user: %w", ErrTransaction, err)
	}

	if err := cryptox.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", u.ID), slog.Any("error", err))
		}
		return s.invalidCredentials(ctx, session, email)
	}

	now := nowFrom(s.Now)
	ok, err := totp.ValidateCustom(strings.TrimSpace(req.OTP), u.TOTPSecret, now, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    totpDigits,
		Algorithm: totpAlgo,
	})
	if err != nil || !ok {
		s.Metrics.LoginAttempt(string(OutcomeInvalidSecondFactor))
		res := AuthResult{
			Outcome:           OutcomeInvalidSecondFactor,
			RemainingAttempts: session.RemainingAttempts(),
			Session:           session,
		}
		if err := s.Audit.Record(ctx, audit.Event{Kind: audit.KindLoginMFAFailure, UserID: u.ID, Email: u.Email}); err != nil {
			return res, fmt.Errorf("%w: %w", ErrTransaction, err)
		}
		return res, nil
	}

	attempted := session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().RecordLogin(ctx, u.ID, now); err != nil {
			return fmt.Errorf("record login: %w", err)
		}
		return s.Audit.Record(ctx, audit.Event{Kind: audit.KindLoginSuccess, UserID: u.ID, Email: u.Email})
	})
	if err != nil {
		l.Error("login transaction failed", slog.String("user_id", u.ID), slog.Any("error", err))
		return AuthResult{Session: attempted}, fmt.Errorf("%w: %w", ErrTransaction, err)
	}

	session.FailedAttempts = 0
	session.UserID = u.ID
	session.Role = u.Role
	principal := u.Principal()

	s.Metrics.LoginAttempt(string(OutcomeSucceeded))
	l.Info("login succeeded", slog.String("user_id", u.ID), slog.String("role", string(u.Role)))

	return AuthResult{
		Outcome:           OutcomeSucceeded,
		Principal:         &principal,
		RemainingAttempts: domain.MaxLoginAttempts,
		Session:           session,
	}, nil
}

func (s *AuthService) invalidCredentials(ctx context.Context, session domain.LoginSession, email string) (AuthResult, error) {
	res := AuthResult{
		Outcome:           OutcomeInvalidCredentials,
		RemainingAttempts: session.RemainingAttempts(),
		Session:           session,
	}
	if res.RemainingAttempts == 0 {
		res.Outcome = OutcomeLockedOut
	}
	s.Metrics.LoginAttempt(string(res.Outcome))

	if err := s.Audit.Record(ctx, audit.Event{Kind: audit.KindLoginFailure, Email: email}); err != nil {
		return res, fmt.Errorf("%w: %w", ErrTransaction, err)
	}
	return res, nil
}
