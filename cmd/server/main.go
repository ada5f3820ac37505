package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/bootstrap"
	"github.com/Harsh-BH/fieldtools/internal/config"
	handler "github.com/Harsh-BH/fieldtools/internal/delivery/http"
	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := bootstrap.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting fieldtools API server", zap.String("store", cfg.Store.Backend))

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, cfg, "", logger)
	if err != nil {
		logger.Fatal("Failed to open job store", zap.Error(err))
	}
	defer store.Close()

	// Initialize RabbitMQ publisher
	pub, err := bootstrap.OpenPublisher(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize RabbitMQ publisher", zap.Error(err))
	}
	defer pub.Close()

	loc, err := cfg.Store.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	svc := usecase.NewJobService(store.Jobs, logger,
		usecase.WithBuilder(store.Builder(loc)),
		usecase.WithPublisher(pub),
	)

	// Initialize router
	router := handler.NewRouter(handler.RouterDeps{
		Service:         svc,
		Logger:          logger,
		HealthChecks:    store.HealthChecks(),
		RateLimitPerMin: cfg.Server.RateLimit,
		BodyLimit:       cfg.Server.BodyLimit,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
