package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"wishlist/api/internal/auth"
	"wishlist/api/internal/cache"
	"wishlist/api/internal/config"
	"wishlist/api/internal/database"
	"wishlist/api/internal/handlers"
	"wishlist/api/internal/jobs"
	"wishlist/api/internal/log"
	"wishlist/api/internal/middleware"
	"wishlist/api/internal/repository"
	"wishlist/api/internal/security"
	"wishlist/api/internal/server"
	"wishlist/api/internal/service"
	"wishlist/api/internal/storage"
	"wishlist/api/internal/throttle"
)

const limiterPruneSchedule = "0 */5 * * * *"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	userRepo := repository.NewUserRepository(dbPool, logger)
	giftRepo := repository.NewGiftRepository(dbPool, logger)

	tokens := security.NewTokenService(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	loginThrottle := throttle.NewLoginThrottle(redisClient, cfg.LoginThrottle.MaxAttempts, cfg.LoginThrottle.Window)
	authLimiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	userService := service.NewUserService(
		userRepo,
		security.NewPasswordHasher(security.DefaultArgon2Params),
		tokens,
		loginThrottle,
		objectStore,
		cfg,
		logger,
	)
	giftService := service.NewGiftService(giftRepo, userRepo, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, handlers.Deps{
		Users:         userService,
		Gifts:         giftService,
		Authenticator: auth.NewAuthenticator(tokens, logger),
		AuthLimiter:   authLimiter,
		Checks: map[string]handlers.HealthCheck{
			"database": dbPool.Ping,
			"cache":    cache.Ping(redisClient),
			"storage":  objectStore.Ping,
		},
	})
	httpServer, err := server.NewHTTPServer(cfg, logger, handlerSet)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build http server")
	}

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.Add(cfg.Jobs.ImageSweepSchedule, jobs.NewImageSweeper(objectStore, userRepo, cfg.Jobs.ImageSweepGrace, logger)); err != nil {
		logger.Error().Err(err).Msg("image sweep not scheduled")
	}
	if err := scheduler.Add(limiterPruneSchedule, jobs.NewLimiterPrune(authLimiter, logger)); err != nil {
		logger.Error().Err(err).Msg("limiter prune not scheduled")
	}
	scheduler.Start()

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
