package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/app"
	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/config"
	"github.com/nekogravitycat/car-rental-bff/internal/db"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	// Session store
	sessionDB, err := db.OpenSessionDB(zl)
	if err != nil {
		zl.Fatal("failed to open session store", zap.Error(err))
	}
	defer sessionDB.Close()

	// Redis is optional
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		zl.Info("address cache uses redis", zap.String("addr", cfg.RedisAddr))
	}

	backendClient, err := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	if err != nil {
		zl.Fatal("invalid backend client config", zap.Error(err))
	}

	container, err := app.NewContainer(cfg, app.Deps{
		Logger:    zl,
		SessionDB: sessionDB,
		Redis:     redisClient,
		Backend:   backendClient,
	})
	if err != nil {
		zl.Fatal("failed to build application", zap.Error(err))
	}

	// Warm the caches; requests fall back to a lazy load if this fails.
	container.Scheduler.RunOnce(ctx)
	container.Scheduler.Start()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		zl.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zl.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := container.Scheduler.Stop(shutdownCtx); err != nil {
		zl.Warn("background jobs did not stop in time", zap.Error(err))
	}

	zl.Info("server exited gracefully")
}
