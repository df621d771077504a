package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storygame/internal/api"
	"storygame/internal/app/service"
	"storygame/internal/domain/repository"
	"storygame/internal/platform/cache"
	"storygame/internal/platform/config"
	"storygame/internal/platform/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 2. Initialize Database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database connected")

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	if err := database.Seed(ctx, db, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	// 3. Optional secondary store (health-check connectivity only)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.Connect(ctx, cfg)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	}

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	levelRepo := repository.NewPgLevelRepository(db)
	dialogueRepo := repository.NewPgDialogueRepository(db)
	progressRepo := repository.NewPgProgressRepository(db)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo)
	levelService := service.NewLevelService(levelRepo, dialogueRepo)
	progressService := service.NewProgressService(userRepo, levelRepo, progressRepo, db, logger)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(authService, levelService, progressService, db, redisClient, logger)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not listen", zap.String("port", cfg.APIPort), zap.Error(err))
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
