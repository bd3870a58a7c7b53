package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/jotonhealth/joton/internal/hospital/http"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/internal/hospital/store/drivers/sqlite"
	"github.com/jotonhealth/joton/pkg/jwtx"
	"github.com/jotonhealth/joton/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the hospital service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	accessCodec  *jwtx.AccessCodec
	refreshCodec *jwtx.RefreshCodec

	tokenService      *service.TokenService
	sessionService    *service.SessionService
	accountService    *service.AccountService
	patientService    *service.PatientService
	staffService      *service.StaffService
	invoiceService    *service.InvoiceService
	departmentService *service.DepartmentService
	systemService     *service.SystemService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. The config
// is validated first: a bad secret or hash cost never reaches serving.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "joton",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app.db = db
	return nil
}

func (app *Application) initServices() {
	app.accessCodec = &jwtx.AccessCodec{
		Secret: []byte(app.cfg.AccessSecret),
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.AccessTTL,
	}
	app.refreshCodec = &jwtx.RefreshCodec{
		Secret: []byte(app.cfg.RefreshSecret),
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.RefreshTTL,
	}

	app.tokenService = service.NewTokenService(app.accessCodec, app.refreshCodec)
	app.sessionService = service.NewSessionService(app.db, app.tokenService)
	app.accountService = service.NewAccountService(app.db)
	app.patientService = service.NewPatientService(app.db, app.cfg.BcryptCost)
	app.staffService = service.NewStaffService(app.db, app.cfg.BcryptCost)
	app.invoiceService = service.NewInvoiceService(app.db)
	app.departmentService = service.NewDepartmentService(app.db)
	app.systemService = service.NewSystemService(app.db, app.staffService, app.cfg.AdminRegistrationSecret)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.accessCodec,
		app.cfg.SecureCookies(),
		BuildVersion,
		app.db,
		app.logger,
	)
	router.SessionService = app.sessionService
	router.AccountService = app.accountService
	router.PatientService = app.patientService
	router.StaffService = app.staffService
	router.InvoiceService = app.invoiceService
	router.DepartmentService = app.departmentService
	router.SystemService = app.systemService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("joton service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down joton service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
	}

	app.logger.Info("shutdown complete")
	return nil
}
