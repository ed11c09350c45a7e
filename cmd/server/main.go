package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/serverapp/account-api/docs"
	"github.com/serverapp/account-api/internal/api"
	"github.com/serverapp/account-api/internal/core/service"
	"github.com/serverapp/account-api/internal/infrastructure/config"
	mongodb "github.com/serverapp/account-api/internal/infrastructure/db/mongo"
	redisdb "github.com/serverapp/account-api/internal/infrastructure/db/redis"
	"github.com/serverapp/account-api/internal/infrastructure/queue"
	"github.com/serverapp/account-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Account Service API
// @version      1.0
// @description  Registration, login and bearer-token issuance.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureAccountIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("account index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Core components, composed explicitly ---
	accounts := mongodb.NewAccountRepository(db)
	audits := mongodb.NewAuditRepository(db)

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, audits, log)
	dispatcher.Start(ctx)

	issuer := service.NewTokenIssuer(service.JWTSettings{
		Key:           cfg.JWT.Key,
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
		ExpiresInDays: cfg.JWT.ExpiresInDays,
	})
	authService := service.NewAuthService(
		accounts,
		service.NewBcryptHasher(0),
		issuer,
		service.NewLockoutPolicy(cfg.Lockout.MaxFailedAttempts, cfg.Lockout.Duration),
		dispatcher,
		cfg.PasswordMinLength,
		log,
	)

	// --- HTTP ---
	e := api.NewRouter(api.RouterConfig{
		AuthService: authService,
		TokenParser: issuer,
		Limiter:     redisdb.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
