// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the backoffice HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL and Redis under the startup connection policy.
//  4. Run database migrations (idempotent).
//  5. Wire services and HTTP handlers, provisioning the first administrator.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/backoffice/internal/api"
	"github.com/taibuivan/backoffice/internal/core/client"
	"github.com/taibuivan/backoffice/internal/core/costcenter"
	"github.com/taibuivan/backoffice/internal/core/packages"
	"github.com/taibuivan/backoffice/internal/core/source"
	"github.com/taibuivan/backoffice/internal/platform/bootstrap"
	"github.com/taibuivan/backoffice/internal/platform/config"
	"github.com/taibuivan/backoffice/internal/platform/constants"
	"github.com/taibuivan/backoffice/internal/platform/metrics"
	"github.com/taibuivan/backoffice/internal/platform/migration"
	pgstore "github.com/taibuivan/backoffice/internal/platform/postgres"
	redisstore "github.com/taibuivan/backoffice/internal/platform/redis"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/access"
	"github.com/taibuivan/backoffice/internal/users/account"
	"github.com/taibuivan/backoffice/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Cancelled on SIGINT/SIGTERM, which also aborts a pending connection retry.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// ── 3. Stores ─────────────────────────────────────────────────────────
	policy := bootstrap.Policy{Attempts: cfg.StoreConnectAttempts, Delay: cfg.StoreConnectDelay}

	pool, err := bootstrap.Connect(ctx, policy, log, "postgres", func(ctx context.Context) (*pgxpool.Pool, error) {
		return pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	})
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := bootstrap.Connect(ctx, policy, log, "redis", func(ctx context.Context) (*redis.Client, error) {
		return redisstore.NewClient(ctx, cfg.RedisURL, log)
	})
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Services ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, constants.AuthIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	must(log, err, "initialize token service")

	metrics.Init()

	accessService := access.NewService(access.NewPostgresStore(pool), access.NewRedisCache(rdb), cfg.AssignmentCacheTTL)
	accountStore := account.NewPostgresStore(pool)
	accountService := account.NewService(accountStore, accessService)
	authService := auth.NewService(accountStore, tokens, cfg.MaxLoginAttempts)

	if cfg.AdminEmail != "" {
		_, err := accountService.ProvisionAdmin(ctx, log, cfg.AdminEmail, cfg.AdminPassword)
		must(log, err, "provision administrator")
	}

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        auth.NewHandler(authService, accountService, !cfg.IsDevelopment()),
		Sessions:    accountService,
		Users:       account.NewHandler(accountService),
		Clients:     client.NewHandler(client.NewService(client.NewPostgresStore(pool), accessService)),
		CostCenters: costcenter.NewHandler(costcenter.NewService(costcenter.NewPostgresStore(pool), accessService)),
		Packages:    packages.NewHandler(packages.NewService(packages.NewPostgresStore(pool), accessService)),
		Sources:     source.NewHandler(source.NewService(source.NewPostgresStore(pool), accessService)),
	}

	server := api.NewServer(ctx, cfg, log, tokens, handlers)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the process-wide JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
