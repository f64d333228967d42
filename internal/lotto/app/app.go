package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	httpapi "github.com/aussiebroadwan/lotto/internal/lotto/http"
	"github.com/aussiebroadwan/lotto/internal/lotto/metrics"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/internal/lotto/store"
	"github.com/aussiebroadwan/lotto/internal/lotto/store/drivers/sqlite"
	"github.com/aussiebroadwan/lotto/internal/lotto/validate"
	"github.com/aussiebroadwan/lotto/pkg/httpx"
	"github.com/aussiebroadwan/lotto/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the lotto service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	metrics   *metrics.Metrics
	audit     *audit.Logger
	auditSink io.WriteCloser

	// Services
	authService         *service.AuthService
	guard               *service.Guard
	sessionService      *service.SessionService
	registrationService *service.RegistrationService
	userService         *service.UserService
	drawService         *service.DrawService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "lotto",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	initKeys(cfg, app.logger)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initAudit()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("lotto service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down lotto service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	// The audit sink closes after the server so in-flight events land.
	if err := app.auditSink.Close(); err != nil {
		app.logger.Error("error closing audit log", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("lotto service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initAudit opens the audit sink. The audit stream is separate from the
// application log and only ever carries SECURITY events.
func (app *Application) initAudit() {
	if app.cfg.AuditLogFile == "-" {
		app.auditSink = nopCloser{os.Stderr}
	} else {
		app.auditSink = audit.NewFileSink(audit.FileConfig{
			Path:       app.cfg.AuditLogFile,
			MaxSizeMB:  app.cfg.AuditMaxSizeMB,
			MaxBackups: app.cfg.AuditMaxBackups,
			Compress:   true,
		})
	}
	app.audit = audit.New(app.auditSink, audit.WithObserver(app.metrics))
	app.logger.Info("audit log configured", "path", app.cfg.AuditLogFile)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	v := validate.New()

	app.authService = &service.AuthService{
		Store:   app.db,
		Audit:   app.audit,
		Metrics: app.metrics,
	}
	app.guard = &service.Guard{Audit: app.audit, Metrics: app.metrics}
	app.sessionService = &service.SessionService{
		Store:     app.db,
		Auth:      app.authService,
		Audit:     app.audit,
		Validator: v,
		TTL:       app.cfg.SessionTTL,
	}
	app.registrationService = &service.RegistrationService{
		Store:     app.db,
		Audit:     app.audit,
		Validator: v,
		Issuer:    app.cfg.Issuer,
	}
	app.userService = &service.UserService{Store: app.db}
	app.drawService = &service.DrawService{
		Store:   app.db,
		Audit:   app.audit,
		Metrics: app.metrics,
	}
	app.bootstrapService = &service.BootstrapService{
		Registration: app.registrationService,
		Token:        app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.metrics,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.metrics, app.logger)
	router.CookieSecure = app.cfg.CookieSecure
	router.Limits = httpapi.Limits{
		Credential: httpx.ParseRateLimitFromEnv("CREDENTIAL", httpx.CredentialLimit),
		Account:    httpx.ParseRateLimitFromEnv("ACCOUNT", httpx.AccountLimit),
		Public:     httpx.ParseRateLimitFromEnv("PUBLIC", httpx.PublicLimit),
	}

	// Wire services to router
	router.SessionService = app.sessionService
	router.Guard = app.guard
	router.RegistrationService = app.registrationService
	router.UserService = app.userService
	router.DrawService = app.drawService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
