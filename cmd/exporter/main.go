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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Harsh-BH/fieldtools/internal/bootstrap"
	"github.com/Harsh-BH/fieldtools/internal/config"
	amqpdelivery "github.com/Harsh-BH/fieldtools/internal/delivery/amqp"
	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/exporter"
	"github.com/Harsh-BH/fieldtools/internal/pool"
	redisrepo "github.com/Harsh-BH/fieldtools/internal/repository/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.RabbitMQ.URL == "" {
		fmt.Fprintln(os.Stderr, "config: RABBITMQ_URL is required by the exporter")
		os.Exit(1)
	}

	// Initialize logger
	logger, err := bootstrap.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting fieldtools sheet exporter", zap.String("sheet", cfg.Store.SheetPath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The sheet is the export target regardless of the API's store backend.
	sheetStore, err := bootstrap.OpenStore(ctx, cfg, config.BackendSheet, logger)
	if err != nil {
		logger.Fatal("Failed to open sheet store", zap.Error(err))
	}
	defer sheetStore.Close()

	// Connect to Redis
	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	idempotencyStore := redisrepo.NewRedisIdempotencyStore(redisClient)
	exportUC := exporter.NewExportJobUsecase(sheetStore.Jobs, idempotencyStore, logger)

	// Create buffered job channel
	jobsChan := make(chan *domain.JobMessage, cfg.Exporter.PoolSize*2)

	// Initialize AMQP consumer
	consumer, err := amqpdelivery.NewConsumer(cfg.RabbitMQ.URL, jobsChan, logger)
	if err != nil {
		logger.Fatal("Failed to initialize AMQP consumer", zap.Error(err))
	}
	defer consumer.Close()
	logger.Info("Connected to RabbitMQ")

	// Start worker pool
	workerPool := pool.NewWorkerPool(cfg.Exporter.PoolSize, jobsChan, exportUC, logger)
	workerPool.Start(ctx)

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Exporter.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// AMQP consumer
	g.Go(func() error {
		return consumer.Start(gctx)
	})

	// Prometheus metrics server
	g.Go(func() error {
		logger.Info("Metrics server listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Exporter stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down exporter...")
	stop()

	// Wait for workers to finish in-flight exports
	workerPool.Stop()

	logger.Info("Exporter stopped")
}
