// Package main is the entry point for the vending API.
// It loads configuration, wires storage and cache, and serves HTTP until
// an interrupt is received.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vending/internal/config"
	"vending/internal/logging"
	"vending/internal/repositories"
	"vending/internal/repositories/cache"
	"vending/internal/repositories/memory"
	"vending/internal/routes"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadEnv()
	cfg := config.Load()
	log := logging.New(os.Stdout, config.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		log.Error(ctx, "ACCESS_TOKEN_JWT_SECRET and REFRESH_TOKEN_JWT_SECRET must be set")
		os.Exit(1)
	}

	var (
		store repositories.Store
		db    *gorm.DB
	)
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store = memory.NewStore()
		log.Warn(ctx, "using in-memory storage, data is lost on restart")
	default:
		var err error
		db, err = repositories.Connect(repositories.DBConfig{
			Host:            cfg.DB.Host,
			Port:            cfg.DB.Port,
			User:            cfg.DB.User,
			Password:        cfg.DB.Password,
			Name:            cfg.DB.Name,
			SSLMode:         cfg.DB.SSLMode,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
		})
		if err != nil {
			log.Error(ctx, "database connection failed", "error", err)
			os.Exit(1)
		}
		if err := repositories.RunMigrations(ctx, db); err != nil {
			log.Error(ctx, "migrations failed", "error", err)
			os.Exit(1)
		}
		store = repositories.NewStore(db)
		go logPoolStats(ctx, log, db)
	}

	if err := store.Ping(ctx); err != nil {
		log.Error(ctx, "failed to ping database", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "storage ready", "driver", cfg.StorageDriver)

	var cacheRepo repositories.CacheRepository = cache.Noop{}
	var cacheService *cache.CacheService
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheService = cache.NewCacheService(client, cfg.Redis.TTL)
		if err := cacheService.HealthCheck(ctx); err != nil {
			log.Warn(ctx, "redis unreachable, continuing with degraded cache", "error", err)
		} else if cfg.FlushCache {
			if err := cacheService.FlushAll(ctx); err != nil {
				log.Warn(ctx, "failed to flush redis cache", "error", err)
			} else {
				log.Info(ctx, "redis cache flushed on startup")
			}
		}
		cacheRepo = cacheService
	}

	defer func() {
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Warn(context.Background(), "failed to close database connection", "error", err)
				}
			}
		}
		if cacheService != nil {
			if err := cacheService.Close(); err != nil {
				log.Warn(context.Background(), "failed to close redis connection", "error", err)
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:               "vending-api",
		DisableStartupMessage: config.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Store:  store,
		Cache:  cacheRepo,
		Logger: log,
		Tokens: utils.TokenConfig{
			AccessSecret:  cfg.Auth.AccessSecret,
			RefreshSecret: cfg.Auth.RefreshSecret,
			AccessTTL:     cfg.Auth.AccessTTL,
			RefreshTTL:    cfg.Auth.RefreshTTL,
		},
		BcryptCost:     cfg.Auth.BcryptCost,
		VendingTimeout: cfg.VendingTimeout,
		AuthRateLimit:  cfg.AuthRateLimit,
	})

	go func() {
		<-ctx.Done()
		log.Info(context.Background(), "shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error(context.Background(), "graceful shutdown failed", "error", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error(ctx, "server stopped", "error", err)
	}
}

func logPoolStats(ctx context.Context, log logging.Logger, db *gorm.DB) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := repositories.PoolStats(db)
			if err != nil {
				log.Warn(ctx, "pool stats unavailable", "error", err)
				continue
			}
			log.Info(ctx, "db pool stats",
				"open", stats.OpenConnections,
				"idle", stats.Idle,
				"in_use", stats.InUse,
				"wait_count", stats.WaitCount,
				"wait_duration", stats.WaitDuration)
		}
	}
}
