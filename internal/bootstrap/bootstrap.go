// Package bootstrap wires configuration into concrete stores, clients and
// loggers shared by the server, exporter and jobctl binaries.
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Harsh-BH/fieldtools/internal/config"
	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/publisher"
	"github.com/Harsh-BH/fieldtools/internal/repository"
	"github.com/Harsh-BH/fieldtools/internal/repository/badger"
	"github.com/Harsh-BH/fieldtools/internal/repository/file"
	"github.com/Harsh-BH/fieldtools/internal/repository/postgres"
	redisrepo "github.com/Harsh-BH/fieldtools/internal/repository/redis"
	"github.com/Harsh-BH/fieldtools/internal/repository/sheet"
)

// NewLogger builds the process logger. "debug" selects the development
// config; any other level uses the production JSON encoder.
func NewLogger(level string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "debug" {
		return zap.NewDevelopment()
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("bootstrap: log level %q: %w", level, err)
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Store is an opened JobStore plus the resources backing it.
type Store struct {
	Jobs    *repository.JobStore
	Backend string

	checks  map[string]repository.Pinger
	closers []func()
}

// Close releases every resource opened for the store, last opened first.
func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Builder returns the record builder for this store. The sheet keeps
// minute-precision times, so its records are truncated up front.
func (s *Store) Builder(loc *time.Location) domain.Builder {
	b := domain.Builder{Location: loc}
	if s.Backend == config.BackendSheet {
		b.Precision = time.Minute
	}
	return b
}

// HealthChecks returns the dependencies worth pinging from /health.
func (s *Store) HealthChecks() map[string]repository.Pinger {
	return s.checks
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// OpenStore opens the medium named by backend (cfg.Store.Backend when empty)
// and wraps it in a JobStore. With cfg.Redis.AppendLock set, appends are also
// serialized through redis so several processes can share one medium.
func OpenStore(ctx context.Context, cfg *config.Config, backend string, logger *zap.Logger) (*Store, error) {
	if backend == "" {
		backend = cfg.Store.Backend
	}
	s := &Store{Backend: backend, checks: map[string]repository.Pinger{}}

	medium, err := s.openMedium(ctx, cfg, backend, logger)
	if err != nil {
		s.Close()
		return nil, err
	}

	var opts []repository.Option
	if cfg.Redis.AppendLock {
		client, err := OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() { client.Close() })
		s.checks["redis"] = pingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
		opts = append(opts, repository.WithLocker(redisrepo.NewAppendLock(client, backend)))
		logger.Info("Redis append lock enabled", zap.String("backend", backend))
	}

	s.Jobs = repository.NewJobStore(medium, opts...)
	if _, ok := medium.(repository.Pinger); ok {
		s.checks["store"] = s.Jobs
	}
	return s, nil
}

func (s *Store) openMedium(ctx context.Context, cfg *config.Config, backend string, logger *zap.Logger) (repository.Medium, error) {
	switch backend {
	case config.BackendFile:
		logger.Info("Using JSON file store", zap.String("path", cfg.Store.FilePath))
		return file.NewMedium(cfg.Store.FilePath), nil

	case config.BackendSheet:
		loc, err := cfg.Store.Location()
		if err != nil {
			return nil, err
		}
		logger.Info("Using sheet store", zap.String("path", cfg.Store.SheetPath), zap.String("timezone", loc.String()))
		return sheet.NewMedium(cfg.Store.SheetPath, loc), nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}
		logger.Info("Connected to PostgreSQL")
		return postgres.NewMedium(pool), nil

	case config.BackendBadger:
		db, err := badger.Open(cfg.Store.BadgerDir)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close badger store", zap.Error(err))
			}
		})
		logger.Info("Using badger store", zap.String("dir", cfg.Store.BadgerDir))
		return db, nil
	}
	return nil, fmt.Errorf("bootstrap: unknown store backend %q", backend)
}

// OpenRedis parses url and checks the server is reachable.
func OpenRedis(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("bootstrap: ping redis: %w", err)
	}
	return client, nil
}

// OpenPublisher connects to RabbitMQ, or returns a publisher that drops
// events when no URL is configured.
func OpenPublisher(cfg *config.Config, logger *zap.Logger) (publisher.Publisher, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("RABBITMQ_URL not set, job events will not be published")
		return publisher.Nop{}, nil
	}
	return publisher.NewRabbitMQPublisher(cfg.RabbitMQ.URL, logger)
}
