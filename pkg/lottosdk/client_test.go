package lottosdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeLogin fails the first attempt and accepts the second, recording the
// Authorization header of each attempt.
type fakeLogin struct {
	mu    sync.Mutex
	auths []string
}

func (f *fakeLogin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auths = append(f.auths, r.Header.Get("Authorization"))
	n := len(f.auths)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if n == 1 {
		w.Header().Set(SessionHeader, "pending-token")
		remaining := 2
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Error:             ErrorCodeInvalidCredentials,
			RemainingAttempts: &remaining,
		})
		return
	}

	w.Header().Set(SessionHeader, "bound-token")
	_ = json.NewEncoder(w).Encode(LoginResponse{
		Outcome:      "succeeded",
		UserID:       "01J000000000000000000000000",
		Role:         "user",
		Landing:      "profile",
		SessionToken: "bound-token",
	})
}

func TestLoginReusesPendingSession(t *testing.T) {
	t.Parallel()

	fake := &fakeLogin{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	_, err := client.Login(ctx, "a@x.com", "wrong", "000000")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.NotNil(t, apiErr.RemainingAttempts)
	require.Equal(t, 2, *apiErr.RemainingAttempts)

	sess, err := client.Login(ctx, "a@x.com", "right", "123456")
	require.NoError(t, err)
	require.Equal(t, "bound-token", sess.Token())
	require.Equal(t, "profile", sess.Login().Landing)

	require.Equal(t, []string{"", "Session pending-token"}, fake.auths)

	// A finished login starts the next one from scratch.
	client.mu.Lock()
	require.Empty(t, client.loginSession)
	client.mu.Unlock()
}

func TestSessionSendsToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(DrawListResponse{Draws: []DrawResponse{}, Empty: true})
	}))
	defer srv.Close()

	sess := NewSDKClient(srv.URL).NewSessionFromToken("tok")
	list, err := sess.UnplayedDraws(context.Background())
	require.NoError(t, err)
	require.True(t, list.Empty)
	require.Equal(t, "Session tok", gotAuth)
	require.Equal(t, "/v1/draws/unplayed", gotPath)
}

func TestLogoutRequiresNoContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorCodeUnauthenticated})
	}))
	defer srv.Close()

	err := NewSDKClient(srv.URL).NewSessionFromToken("stale").Logout(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)
}
