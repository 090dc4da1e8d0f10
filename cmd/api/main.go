// @title                       Library API
// @version                     1.0
// @description                 Users, authors and books with token-based authentication.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookhive/library-api/internal/api"
	"github.com/bookhive/library-api/internal/core/service"
	"github.com/bookhive/library-api/internal/infrastructure/config"
	"github.com/bookhive/library-api/internal/infrastructure/db/mongo"
	"github.com/bookhive/library-api/internal/infrastructure/db/postgres"
	"github.com/bookhive/library-api/internal/infrastructure/db/redis"
	infrahttp "github.com/bookhive/library-api/internal/infrastructure/http"
	"github.com/bookhive/library-api/internal/infrastructure/http/handlers"
	"github.com/bookhive/library-api/internal/infrastructure/queue"
	"github.com/bookhive/library-api/pkg/logger"
)

const (
	auditWorkers    = 4
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "library-api",
	})

	// --- Stores ---
	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres unavailable")
	}
	defer db.Close()

	mongoClient, auditDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongo.EnsureIndexes(ctx, auditDB); err != nil {
		log.Warn().Err(err).Msg("could not create audit indexes")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	users := postgres.NewUserRepository(db)
	authors := postgres.NewAuthorRepository(db)
	books := postgres.NewBookRepository(db)

	// --- Auth ---
	creds, err := service.NewCredentialStore(users, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid bcrypt cost")
	}
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}
	throttle := redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)

	audit := queue.NewDispatcher(auditWorkers, mongo.NewAuditRepository(auditDB), log)
	audit.Start()

	authService := service.NewAuthService(users, creds, tokens, throttle, audit, log)
	authorService := service.NewAuthorService(authors, books, log)
	bookService := service.NewBookService(books, authors, log)

	// --- HTTP ---
	e, err := infrahttp.NewServer(infrahttp.ServerOptions{
		Logger:     log,
		CORSOrigin: cfg.HTTP.CORSOrigin,
		Checks: []handlers.Check{
			{Name: "postgres", Pinger: handlers.PingerFunc(db.PingContext)},
			{Name: "mongodb", Pinger: handlers.PingerFunc(mongo.Ping(auditDB))},
			{Name: "redis", Pinger: handlers.PingerFunc(redis.Ping(rdb))},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build http server")
	}
	api.NewRouter(e, api.Dependencies{
		Auth:         authService,
		Tokens:       tokens,
		Authors:      authorService,
		Books:        bookService,
		SecureCookie: cfg.HTTP.CookieSecure,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := audit.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("audit queue not fully drained")
	}
}
