package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/internal/lotto/validate"
	"github.com/aussiebroadwan/lotto/pkg/cryptox"
	"github.com/aussiebroadwan/lotto/pkg/idx"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

const DefaultSessionTTL = 12 * time.Hour

// LoginResult is an AuthResult plus the session token the client must hold
// from now on. The token changes when a session is started or rotated.
type LoginResult struct {
	AuthResult
	Token string
}

// SessionService owns the server-side login session: its attempt counter,
// its binding to a user after login, and its revocation on logout.
type SessionService struct {
	Store     store.Store
	Auth      *AuthService
	Audit     *audit.Logger
	Validator *validate.Validator
	TTL       time.Duration
	Now       func() time.Time
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Start creates a fresh, unauthenticated session with a full attempt budget.
// Only the token's fingerprint is stored.
func (s *SessionService) Start(ctx context.Context) (string, domain.LoginSession, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.LoginSession{}, fmt.Errorf("generate session token: %w", err)
	}

	now := nowFrom(s.Now)
	session := domain.LoginSession{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return "", domain.LoginSession{}, fmt.Errorf("%w: create session: %w", ErrTransaction, err)
	}
	return token, session, nil
}

// Resolve returns the live session for token. Missing, expired and revoked
// sessions all yield ErrSessionInvalid.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.LoginSession, error) {
	if token == "" {
		return domain.LoginSession{}, ErrSessionInvalid
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.LoginSession{}, ErrSessionInvalid
	}
	if err != nil {
		return domain.LoginSession{}, fmt.Errorf("%w: get session: %w", ErrTransaction, err)
	}
	if session.Revoked || session.Expired(nowFrom(s.Now)) {
		return domain.LoginSession{}, ErrSessionInvalid
	}
	return session, nil
}

// Login validates the form, claims one attempt on the caller's session and
// runs authentication against it. A malformed form never costs an attempt.
// On success the session is rotated: the old token is revoked and the
// returned token is bound to the user.
func (s *SessionService) Login(ctx context.Context, token string, req LoginRequest) (LoginResult, error) {
	if s.Validator != nil {
		if err := s.Validator.Struct(req); err != nil {
			return LoginResult{}, err
		}
	}

	session, err := s.Resolve(ctx, token)
	if errors.Is(err, ErrSessionInvalid) {
		token, session, err = s.Start(ctx)
	}
	if err != nil {
		return LoginResult{}, err
	}

	// The attempt is counted in the store before any credential is checked,
	// so concurrent requests on one session cannot share a stale count.
	attempt, err := s.claimAttempt(ctx, session)
	if err != nil {
		return LoginResult{Token: token}, err
	}

	res, authErr := s.Auth.Authenticate(ctx, attempt, req)
	if res.Outcome != OutcomeSucceeded {
		return LoginResult{AuthResult: res, Token: token}, authErr
	}

	rotated, bound, err := s.rotate(ctx, session, res.Session)
	if err != nil {
		return LoginResult{Token: token}, err
	}
	res.Session = bound

	slogx.FromContext(ctx).Debug("session rotated",
		slog.String("old_session_id", session.ID),
		slog.String("session_id", bound.ID),
	)
	return LoginResult{AuthResult: res, Token: rotated}, nil
}

// claimAttempt reserves one attempt for session and returns it as
// Authenticate expects it: the count before this attempt. A session with no
// attempts left comes back at the limit, which Authenticate rejects.
func (s *SessionService) claimAttempt(ctx context.Context, session domain.LoginSession) (domain.LoginSession, error) {
	n, err := s.Store.Sessions().ClaimSessionAttempt(ctx, session.ID, domain.MaxLoginAttempts)
	switch {
	case errors.Is(err, store.ErrNotFound):
		session.FailedAttempts = max(session.FailedAttempts, domain.MaxLoginAttempts)
		return session, nil
	case err != nil:
		return session, fmt.Errorf("%w: claim login attempt: %w", ErrTransaction, err)
	}
	session.FailedAttempts = n - 1
	return session, nil
}

// rotate revokes old and replaces it with a new session bound to the
// authenticated user.
func (s *SessionService) rotate(ctx context.Context, old, authed domain.LoginSession) (string, domain.LoginSession, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.LoginSession{}, fmt.Errorf("generate session token: %w", err)
	}

	now := nowFrom(s.Now)
	next := domain.LoginSession{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    authed.UserID,
		Role:      authed.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().RevokeSession(ctx, old.ID); err != nil {
			return err
		}
		if err := tx.Sessions().CreateSession(ctx, next); err != nil {
			return err
		}
		return tx.Sessions().BindSession(ctx, next.ID, next.UserID, next.Role, 0)
	})
	if err != nil {
		return "", domain.LoginSession{}, fmt.Errorf("%w: rotate session: %w", ErrTransaction, err)
	}
	return token, next, nil
}

// Principal returns the authenticated caller behind token, or nil when the
// session is live but not logged in. The role is read from the user record,
// never from the session alone.
func (s *SessionService) Principal(ctx context.Context, token string) (*domain.Principal, error) {
	session, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.Authenticated() {
		return nil, nil
	}

	u, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %w", ErrTransaction, err)
	}

	p := u.Principal()
	return &p, nil
}

// Logout revokes the session behind token and audits the logout.
func (s *SessionService) Logout(ctx context.Context, token string, p *domain.Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}

	session, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().RevokeSession(ctx, session.ID); err != nil {
			return err
		}
		return s.Audit.Record(ctx, audit.Event{Kind: audit.KindLogout, UserID: p.UserID, Email: p.Email})
	})
	if err != nil {
		return fmt.Errorf("%w: logout: %w", ErrTransaction, err)
	}

	slogx.FromContext(ctx).Info("logged out", slog.String("user_id", p.UserID))
	return nil
}
