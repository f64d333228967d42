package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/internal/lotto/validate"
	"github.com/stretchr/testify/require"
)

func TestResolveSession(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	token, session, err := e.sessions.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEqual(t, token, session.TokenHash)

	got, err := e.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, session.ID, got.ID)
	require.False(t, got.Authenticated())

	_, err = e.sessions.Resolve(ctx, "")
	require.ErrorIs(t, err, service.ErrSessionInvalid)
	_, err = e.sessions.Resolve(ctx, "not-a-token")
	require.ErrorIs(t, err, service.ErrSessionInvalid)

	e.now = e.now.Add(time.Hour)
	_, err = e.sessions.Resolve(ctx, token)
	require.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestLogin_InvalidFormCostsNoAttempt(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	token, _, err := e.sessions.Start(ctx)
	require.NoError(t, err)

	_, err = e.sessions.Login(ctx, token, service.LoginRequest{Email: "not-an-email", Password: "x", OTP: "12"})
	var verrs validate.Errors
	require.True(t, errors.As(err, &verrs))
	require.Contains(t, verrs, "email")
	require.Contains(t, verrs, "otp")

	session, err := e.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.Zero(t, session.FailedAttempts)
	require.Empty(t, e.auditKinds())
}

func TestLogin_PersistsAttemptsAcrossRequests(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.mustRegister(t, "a@x.com")

	bad := service.LoginRequest{Email: "a@x.com", Password: "Wr0ng!pass", OTP: e.code(t)}

	res, err := e.sessions.Login(ctx, "", bad)
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	token := res.Token

	res, err = e.sessions.Login(ctx, token, bad)
	require.NoError(t, err)
	require.Equal(t, token, res.Token)
	require.Equal(t, 1, res.RemainingAttempts)

	res, err = e.sessions.Login(ctx, token, bad)
	require.NoError(t, err)
	require.Equal(t, service.OutcomeLockedOut, res.Outcome)

	res, err = e.sessions.Login(ctx, token, service.LoginRequest{Email: "a@x.com", Password: testPassword, OTP: e.code(t)})
	require.NoError(t, err)
	require.Equal(t, service.OutcomeLockedOut, res.Outcome)

	session, err := e.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, 3, session.FailedAttempts)
}

func TestLogin_ConcurrentAttemptsShareOneBudget(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.mustRegister(t, "a@x.com")

	token, _, err := e.sessions.Start(ctx)
	require.NoError(t, err)

	const callers = 12
	bad := service.LoginRequest{Email: "a@x.com", Password: "Wr0ng!pass", OTP: e.code(t)}
	outcomes := make(chan service.Outcome, callers)

	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.sessions.Login(ctx, token, bad)
			if err != nil {
				t.Errorf("login: %v", err)
				return
			}
			outcomes <- res.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := map[service.Outcome]int{}
	for o := range outcomes {
		counts[o]++
	}
	require.Equal(t, domain.MaxLoginAttempts-1, counts[service.OutcomeInvalidCredentials])
	require.Equal(t, callers-domain.MaxLoginAttempts+1, counts[service.OutcomeLockedOut])

	// Only the attempts that fitted the budget reached the password check.
	failures := 0
	for _, k := range e.auditKinds() {
		if k == "LOGIN_FAILURE" {
			failures++
		}
	}
	require.Equal(t, domain.MaxLoginAttempts, failures)

	session, err := e.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, domain.MaxLoginAttempts, session.FailedAttempts)
}

func TestLogin_RotatesSessionAndBindsPrincipal(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	acct := e.mustRegister(t, "a@x.com")

	token, _, err := e.sessions.Start(ctx)
	require.NoError(t, err)

	p, err := e.sessions.Principal(ctx, token)
	require.NoError(t, err)
	require.Nil(t, p)

	res, err := e.sessions.Login(ctx, token, service.LoginRequest{Email: "a@x.com", Password: testPassword, OTP: e.code(t)})
	require.NoError(t, err)
	require.Equal(t, service.OutcomeSucceeded, res.Outcome)
	require.NotEqual(t, token, res.Token)

	_, err = e.sessions.Resolve(ctx, token)
	require.ErrorIs(t, err, service.ErrSessionInvalid)

	p, err = e.sessions.Principal(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, &domain.Principal{UserID: acct.ID, Email: "a@x.com", Role: domain.RoleUser}, p)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.mustRegister(t, "a@x.com")

	res, err := e.sessions.Login(ctx, "", service.LoginRequest{Email: "a@x.com", Password: testPassword, OTP: e.code(t)})
	require.NoError(t, err)
	p, err := e.sessions.Principal(ctx, res.Token)
	require.NoError(t, err)

	require.ErrorIs(t, e.sessions.Logout(ctx, res.Token, nil), service.ErrUnauthenticated)
	require.NoError(t, e.sessions.Logout(ctx, res.Token, p))

	_, err = e.sessions.Principal(ctx, res.Token)
	require.ErrorIs(t, err, service.ErrSessionInvalid)
	require.ErrorIs(t, e.sessions.Logout(ctx, res.Token, p), service.ErrSessionInvalid)

	require.Contains(t, e.auditOut.String(), "SECURITY - LOGOUT ["+p.UserID+", a@x.com]")
}

func TestHousekeepingRemovesExpiredSessions(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	expiring, _, err := e.sessions.Start(ctx)
	require.NoError(t, err)

	e.now = e.now.Add(2 * time.Hour)
	fresh, _, err := e.sessions.Start(ctx)
	require.NoError(t, err)

	hk := service.NewHousekeepingService(e.store, nil, e.metrics, time.Minute)
	hk.Now = func() time.Time { return e.now }

	n, err := hk.Cleanup(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = e.sessions.Resolve(ctx, expiring)
	require.ErrorIs(t, err, service.ErrSessionInvalid)
	_, err = e.sessions.Resolve(ctx, fresh)
	require.NoError(t, err)
}
