package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/propdata/property-api/internal/api"
	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/service"
	"github.com/propdata/property-api/internal/infrastructure/config"
	mongodb "github.com/propdata/property-api/internal/infrastructure/db/mongo"
	redisdb "github.com/propdata/property-api/internal/infrastructure/db/redis"
	"github.com/propdata/property-api/internal/infrastructure/queue"
	"github.com/propdata/property-api/internal/ratelimit"
	"github.com/propdata/property-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Dependencies ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	properties := mongodb.NewPropertyRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := properties.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("property index creation failed")
	}

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service misconfigured")
	}

	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RateLimitStore == "redis" {
		store = redisdb.NewRateLimitStore(rdb)
	}
	limiter := ratelimit.NewLimiter(store)

	indexService := service.NewIndexService(properties, log)
	dispatcher := queue.NewDispatcher(cfg.IndexWorkers, indexService, log)
	dispatcher.Start(ctx)

	if cfg.Env == "development" {
		seedDevUsers(ctx, log, users)
	}

	e, err := api.NewRouter(api.Dependencies{
		Users:            users,
		Properties:       properties,
		Cache:            redisdb.NewResultCache(rdb),
		Tokens:           tokens,
		Limiter:          limiter,
		Queue:            dispatcher,
		Mongo:            db,
		Redis:            rdb,
		SearchRatePolicy: cfg.SearchRateLimit,
		Log:              log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router construction failed")
	}

	// --- Serve ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("property api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedDevUsers creates the example accounts used in development. Existing
// users are left untouched.
func seedDevUsers(ctx context.Context, log zerolog.Logger, users *mongodb.UserRepository) {
	seeds := []struct {
		email    string
		password string
		role     domain.Role
	}{
		{"admin@example.com", "admin123", domain.RoleAdmin},
		{"manager@example.com", "manager123", domain.RoleManager},
		{"agent@example.com", "agent123", domain.RoleAgent},
		{"user@example.com", "user123", domain.RoleUser},
	}

	now := time.Now().UTC()
	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Str("email", s.email).Msg("seed hash failed")
			continue
		}
		_, err = users.Create(ctx, &domain.User{
			Email:        s.email,
			PasswordHash: string(hash),
			Role:         s.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, domain.ErrUserExists) {
			log.Error().Err(err).Str("email", s.email).Msg("seed user failed")
		}
	}
}
