package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/lotto/internal/lotto/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.LoginAttempt("succeeded")
	m.LoginAttempt("locked_out")
	m.LoginAttempt("locked_out")
	m.AuditRecorded("LOGIN_FAILURE")
	m.AccessDenied("user")
	m.DecryptFailure()
	m.DrawSubmitted()
	m.DrawsCleared(3)
	m.DrawsCleared(0)
	m.SessionsExpired(2)
	m.HousekeepingRun(nil)
	m.HousekeepingRun(errors.New("boom"))

	count, err := testutil.GatherAndCount(m.Registry(),
		"lotto_login_attempts_total",
		"lotto_audit_events_total",
		"lotto_access_denied_total",
		"lotto_housekeeping_runs_total",
	)
	require.NoError(t, err)
	require.Equal(t, 6, count, "one series per distinct label value")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `lotto_login_attempts_total{outcome="locked_out"} 2`)
	require.Contains(t, body, `lotto_draws_cleared_total 3`)
	require.Contains(t, body, `lotto_sessions_expired_total 2`)
	require.Contains(t, body, `lotto_housekeeping_runs_total{result="error"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics

	require.NotPanics(t, func() {
		m.LoginAttempt("succeeded")
		m.AuditRecorded("LOGOUT")
		m.AccessDenied("user")
		m.DecryptFailure()
		m.DrawSubmitted()
		m.DrawsCleared(1)
		m.SessionsExpired(1)
		m.HousekeepingRun(nil)
	})
	require.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
