package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/metrics"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

// Limits are the rate limit profiles applied per route group.
type Limits struct {
	Credential httpx.RateLimitConfig
	Account    httpx.RateLimitConfig
	Public     httpx.RateLimitConfig
}

func DefaultLimits() Limits {
	return Limits{
		Credential: httpx.CredentialLimit,
		Account:    httpx.AccountLimit,
		Public:     httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *metrics.Metrics

	Limits Limits

	// CookieSecure marks the session cookie Secure. Disable only for local
	// development over plain HTTP.
	CookieSecure bool

	SessionService      *service.SessionService
	Guard               *service.Guard
	RegistrationService *service.RegistrationService
	UserService         *service.UserService
	DrawService         *service.DrawService
	BootstrapService    *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, m *metrics.Metrics, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		metrics:      m,
		Limits:       DefaultLimits(),
		CookieSecure: true,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.sessionMiddleware,
	}

	return r
}

// ApplyRoutes registers every route. Call it once, after the services are set.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccount()
	r.registerDraws()
	r.registerAdmin()
	r.registerBootstrap()
	r.registerSystem()

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		r.handler = httpx.Chain(r.Mux, r.middlewares...)
	}
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{RegistrationService: r.RegistrationService}
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(r.Limits.Credential),
		),
	)

	// POST /login - rate limited by IP + email to slow credential spraying
	loginHandler := &LoginHandler{SessionService: r.SessionService, CookieSecure: r.CookieSecure}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(r.Limits.Credential),
			httpx.RateLimitByIPAndJSONField(r.Limits.Credential, "email"),
		),
	)

	logoutHandler := &LogoutHandler{SessionService: r.SessionService, CookieSecure: r.CookieSecure}
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByUser(r.Limits.Account),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{Guard: r.Guard, UserService: r.UserService}
	r.Mux.Handle("GET /v1/account",
		httpx.Chain(h,
			httpx.RateLimitByUser(r.Limits.Account),
		),
	)
}

func (r *Router) registerDraws() {
	h := &DrawsHandler{Guard: r.Guard, DrawService: r.DrawService}

	r.Mux.Handle("POST /v1/draws",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit), httpx.RateLimitByUser(r.Limits.Account)),
	)
	r.Mux.Handle("GET /v1/draws/unplayed",
		httpx.Chain(http.HandlerFunc(h.HandleListUnplayed), httpx.RateLimitByUser(r.Limits.Account)),
	)
	r.Mux.Handle("GET /v1/draws/played",
		httpx.Chain(http.HandlerFunc(h.HandleListPlayed), httpx.RateLimitByUser(r.Limits.Account)),
	)
	r.Mux.Handle("DELETE /v1/draws/played",
		httpx.Chain(http.HandlerFunc(h.HandleClearPlayed), httpx.RateLimitByUser(r.Limits.Account)),
	)
}

func (r *Router) registerAdmin() {
	h := &ResolveDrawHandler{Guard: r.Guard, DrawService: r.DrawService}
	r.Mux.Handle("POST /v1/admin/draws/{id}/resolve",
		httpx.Chain(h,
			httpx.RateLimitByUser(r.Limits.Account),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(r.Limits.Credential),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(r.metrics.Handler(),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
}
