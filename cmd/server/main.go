package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"challengehub/internal/cache"
	"challengehub/internal/config"
	"challengehub/internal/database"
	"challengehub/internal/repositories"
	"challengehub/internal/response"
	"challengehub/internal/router"
	"challengehub/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("starting challengehub",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Database is optional: without DATABASE_URL the server still
	// serves its health probe while API routes answer 503.
	var (
		db  *database.Manager
		svc *services.Collection
	)
	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, starting without persistence")
	} else {
		db, err = database.NewManager(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}

		cacheProvider, err := cache.NewCache(cacheConfig(cfg), logger)
		if err != nil {
			logger.Fatal("failed to create cache", zap.Error(err))
		}
		defer cacheProvider.Close()

		repos := repositories.NewCollection(db, logger)
		svc = services.NewCollection(repos, cacheProvider, cfg, logger)

		seedCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := svc.Auth.SeedOwner(seedCtx); err != nil {
			logger.Error("owner seeding failed", zap.Error(err))
		}
		cancel()
	}

	responseConfig := response.DefaultConfig()
	responseConfig.MaskInternalErrors = cfg.IsProduction()
	builder := response.NewBuilder(responseConfig, logger)

	handler := router.New(cfg, logger, builder, svc, db)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}

// initLogger builds the zap logger from configuration
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// cacheConfig maps the application config onto the cache provider
func cacheConfig(cfg *config.Config) *cache.Config {
	cacheCfg := cache.DefaultConfig()
	if cfg.Redis.URL != "" {
		cacheCfg.Provider = "redis"
		cacheCfg.RedisURL = cfg.Redis.URL
	}
	return cacheCfg
}
