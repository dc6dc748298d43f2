// Package main - точка входа для API-сервера FitCircle.
//
// Философия: "Тренируйся вместе - расти вместе" - сервер подбирает
// участникам похожих напарников по уровню подготовки, целям и любимым
// типам тренировок, чтобы никто не тренировался в одиночку.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, кэш
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitcircle/fitcircle-backend/config"

	// Application layer
	"github.com/fitcircle/fitcircle-backend/internal/application/command"
	"github.com/fitcircle/fitcircle-backend/internal/application/query"

	// Domain layer
	"github.com/fitcircle/fitcircle-backend/internal/domain/recommendation"

	// Infrastructure layer
	"github.com/fitcircle/fitcircle-backend/internal/infrastructure/persistence/postgres"
	"github.com/fitcircle/fitcircle-backend/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/fitcircle/fitcircle-backend/internal/interface/http"

	// Packages
	"github.com/fitcircle/fitcircle-backend/pkg/logger"
	"github.com/fitcircle/fitcircle-backend/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting FitCircle API server",
		logger.String("env", string(cfg.App.Environment)),
		logger.Bool("debug", cfg.App.Debug),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")

	var dbConn *postgres.Connection
	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if connErr != nil {
			return retry.Retryable(connErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var recCache *redis.RecommendationCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		err = retry.CacheRetrier().Do(ctx, func(ctx context.Context) error {
			var connErr error
			redisCache, connErr = redis.NewCache(redisCfg)
			if connErr != nil {
				return retry.Retryable(connErr)
			}
			return nil
		})
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			recCache = redis.NewRecommendationCacheWithTTL(redisCache, cfg.Recommender.CacheTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ И ДОМЕННЫХ СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	userRepo := postgres.NewUserRepository(dbConn)

	weights := recommendation.Weights{
		FitnessLevel:   cfg.Recommender.FitnessLevelWeight,
		PrimaryGoal:    cfg.Recommender.PrimaryGoalWeight,
		WorkoutOverlap: cfg.Recommender.WorkoutOverlapWeight,
	}
	scorer, err := recommendation.NewScorer(weights)
	if err != nil {
		return fmt.Errorf("invalid scoring weights: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ ОБРАБОТЧИКОВ (CQRS)
	// ─────────────────────────────────────────────────────────────────────────
	cacheEnabled := cfg.Recommender.CacheEnabled &&
		cfg.Features.IsEnabled(config.FeatureRecommendationCache, nil) &&
		recCache != nil

	var resultCache query.ResultCache
	var invalidator command.RecommendationInvalidator
	if cacheEnabled {
		resultCache = recCache
		invalidator = recCache
	}

	includeBreakdown := cfg.Features.IsEnabled(config.FeatureRecommendationBreakdown, nil)

	limits := query.Limits{
		DefaultConnections: cfg.Recommender.DefaultLimit,
		MaxConnections:     cfg.Recommender.MaxLimit,
		DefaultBuddies:     cfg.Recommender.BuddyLimit,
		DefaultPotential:   cfg.Recommender.PotentialLimit,
	}

	recommendationsHandler := query.NewGetRecommendedConnectionsHandler(userRepo, scorer, resultCache, includeBreakdown, limits)
	buddiesHandler := query.NewGetWorkoutBuddiesHandler(userRepo, limits)
	potentialHandler := query.NewFindPotentialConnectionsHandler(userRepo, limits)
	profileHandler := query.NewGetUserProfileHandler(userRepo)

	connectHandler := command.NewConnectUsersHandler(userRepo, userRepo, invalidator)
	disconnectHandler := command.NewDisconnectUsersHandler(userRepo, invalidator)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := httpserver.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("postgres", httpserver.NewPingCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("redis", httpserver.NewPingCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.Config{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
		IdleTimeout:        cfg.Server.IdleTimeout,
		MaxHeaderBytes:     cfg.Server.MaxHeaderBytes,
		EnableCORS:         cfg.Server.EnableCORS,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		DefaultMinScore:    cfg.Recommender.DefaultMinScore,
	}

	httpDeps := httpserver.Dependencies{
		GetUserProfileHandler:            profileHandler,
		GetRecommendedConnectionsHandler: recommendationsHandler,
		GetWorkoutBuddiesHandler:         buddiesHandler,
		FindPotentialConnectionsHandler:  potentialHandler,
		ConnectUsersHandler:              connectHandler,
		DisconnectUsersHandler:           disconnectHandler,
		Logger:                           log,
		HealthChecker:                    healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)
	errCh := httpServer.StartAsync()

	log.Info("FitCircle API server is running",
		logger.String("address", httpServer.Address()),
		logger.Bool("cache_enabled", cacheEnabled),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)

	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}

	return logger.New(opts)
}
