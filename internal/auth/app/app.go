// Package app wires the auth service together: config, store driver,
// refresh registry, token service and HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
	httpapi "github.com/Vikey-14/pokemon-api/internal/auth/http"
	"github.com/Vikey-14/pokemon-api/internal/auth/service"
	"github.com/Vikey-14/pokemon-api/internal/auth/store"
	"github.com/Vikey-14/pokemon-api/internal/auth/store/drivers/memory"
	redisdrv "github.com/Vikey-14/pokemon-api/internal/auth/store/drivers/redis"
	"github.com/Vikey-14/pokemon-api/internal/auth/store/drivers/sqlite"
	"github.com/Vikey-14/pokemon-api/pkg/cryptox"
	"github.com/Vikey-14/pokemon-api/pkg/jwtx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	st            store.Store
	registry      store.RefreshTokens
	redisRegistry *redisdrv.Registry // nil unless the redis registry driver is active

	tokenService        *service.TokenService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// defaultRoster is the seeded credential set. Passwords are stored raw for
// the memory driver and argon2id-hashed for sqlite.
func defaultRoster() []domain.User {
	return []domain.User{
		{Username: "ashketchum", Password: "pikapika", Role: domain.RoleTrainer},
		{Username: "professoroak", Password: "pallet123", Role: domain.RoleAdmin},
	}
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "pokemon-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if app.cfg.Secret == "" {
		app.cfg.Secret = DevSecret
		app.logger.Warn("AUTH_SECRET not set, using the dev secret; do not deploy like this")
	}

	passwords, err := app.initStore()
	if err != nil {
		return nil, err
	}

	if err := app.initRegistry(); err != nil {
		_ = app.st.Close()
		return nil, err
	}

	codec := jwtx.NewCodec([]byte(app.cfg.Secret), app.cfg.Issuer)

	app.tokenService = &service.TokenService{
		Credentials: app.st.Credentials(),
		Registry:    app.registry,
		Codec:       codec,
		Passwords:   passwords,
		Issuer:      app.cfg.Issuer,
		AccessTTL:   app.cfg.AccessTTL,
		RefreshTTL:  app.cfg.RefreshTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.registry,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	app.initHTTP(codec)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in-flight requests, stops housekeeping and closes the
// backing stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redisRegistry != nil {
		if err := app.redisRegistry.Close(); err != nil {
			app.logger.Error("error closing redis registry", "error", err)
		}
	}

	if err := app.st.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// Handler exposes the routed HTTP handler, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

func (app *Application) initStore() (cryptox.PasswordVerifier, error) {
	switch app.cfg.StoreDriver {
	case StoreDriverMemory:
		app.st = memory.NewStore(defaultRoster())
		return cryptox.PlainVerifier{}, nil

	case StoreDriverSQLite:
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.st = db

		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.logger.Info("database migrations applied")

		ctx := context.Background()
		for _, u := range defaultRoster() {
			hash, err := cryptox.HashPassword(u.Password)
			if err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to hash seed password: %w", err)
			}
			u.Password = hash
			if err := db.SeedUser(ctx, u); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to seed user %s: %w", u.Username, err)
			}
		}
		return cryptox.Argon2Verifier{}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
}

func (app *Application) initRegistry() error {
	switch app.cfg.RegistryDriver {
	case RegistryDriverStore:
		app.registry = app.st.RefreshTokens()
		return nil

	case RegistryDriverRedis:
		reg, err := redisdrv.NewRegistry(app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to initialize redis registry: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := reg.Ping(ctx); err != nil {
			_ = reg.Close()
			return fmt.Errorf("redis registry unreachable: %w", err)
		}

		app.redisRegistry = reg
		app.registry = reg
		return nil

	default:
		return fmt.Errorf("unknown registry driver %q", app.cfg.RegistryDriver)
	}
}

func (app *Application) initHTTP(verifier jwtx.Verifier) {
	router := httpapi.NewRouter(verifier, BuildVersion, app.logger)

	router.TokenService = app.tokenService
	router.CredentialsPing = app.st
	router.RegistryPing = app.st
	if app.redisRegistry != nil {
		router.RegistryPing = app.redisRegistry
	}
	router.DisableRateLimits = app.cfg.DisableRateLimits
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
