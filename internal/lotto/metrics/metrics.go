// Package metrics exposes Prometheus counters for authentication, access
// control, audit and draw activity. All methods are safe on a nil *Metrics so
// services can run without instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lotto"

type Metrics struct {
	registry *prometheus.Registry

	loginAttempts    *prometheus.CounterVec
	auditEvents      *prometheus.CounterVec
	accessDenied     *prometheus.CounterVec
	decryptFailures  prometheus.Counter
	drawsSubmitted   prometheus.Counter
	drawsCleared     prometheus.Counter
	sessionsExpired  prometheus.Counter
	housekeepingRuns *prometheus.CounterVec
}

// New registers every collector on a fresh registry, plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts labeled by outcome",
		}, []string{"outcome"}),
		auditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_total",
			Help:      "Security audit events written, labeled by kind",
		}, []string{"kind"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Operations refused by the role guard, labeled by caller role",
		}, []string{"role"}),
		decryptFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draw_decrypt_failures_total",
			Help:      "Draw records that failed authenticated decryption",
		}),
		drawsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_submitted_total",
			Help:      "Draw selections stored",
		}),
		drawsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_cleared_total",
			Help:      "Played draw records deleted by their owners",
		}),
		sessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Expired login sessions removed by housekeeping",
		}),
		housekeepingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "housekeeping_runs_total",
			Help:      "Housekeeping passes labeled by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.loginAttempts,
		m.auditEvents,
		m.accessDenied,
		m.decryptFailures,
		m.drawsSubmitted,
		m.drawsCleared,
		m.sessionsExpired,
		m.housekeepingRuns,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(labelOrUnknown(outcome)).Inc()
}

// AuditRecorded satisfies audit.Observer.
func (m *Metrics) AuditRecorded(kind string) {
	if m == nil {
		return
	}
	m.auditEvents.WithLabelValues(labelOrUnknown(kind)).Inc()
}

func (m *Metrics) AccessDenied(role string) {
	if m == nil {
		return
	}
	m.accessDenied.WithLabelValues(labelOrUnknown(role)).Inc()
}

func (m *Metrics) DecryptFailure() {
	if m == nil {
		return
	}
	m.decryptFailures.Inc()
}

func (m *Metrics) DrawSubmitted() {
	if m == nil {
		return
	}
	m.drawsSubmitted.Inc()
}

func (m *Metrics) DrawsCleared(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.drawsCleared.Add(float64(n))
}

func (m *Metrics) SessionsExpired(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsExpired.Add(float64(n))
}

func (m *Metrics) HousekeepingRun(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.housekeepingRuns.WithLabelValues(result).Inc()
}

func labelOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
