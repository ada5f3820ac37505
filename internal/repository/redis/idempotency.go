package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Harsh-BH/fieldtools/internal/repository"
)

var _ repository.IdempotencyStore = (*redisIdempotency)(nil)

const (
	exportKeyPrefix = "fieldtools:export:"
	exportLockTTL   = 10 * time.Minute
)

type redisIdempotency struct {
	client goredis.UniversalClient
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store for the sheet exporter.
func NewRedisIdempotencyStore(client goredis.UniversalClient) repository.IdempotencyStore {
	return &redisIdempotency{client: client}
}

// AcquireLock uses Redis SETNX to atomically acquire a per-job export lock.
func (r *redisIdempotency) AcquireLock(ctx context.Context, jobID string) (bool, error) {
	key := exportKeyPrefix + jobID
	ok, err := r.client.SetNX(ctx, key, time.Now().Unix(), exportLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis: acquire export lock: %w", err)
	}
	return ok, nil
}

// Forget deletes the lock key after a failed export.
func (r *redisIdempotency) Forget(ctx context.Context, jobID string) error {
	if err := r.client.Del(ctx, exportKeyPrefix+jobID).Err(); err != nil {
		return fmt.Errorf("redis: forget export lock: %w", err)
	}
	return nil
}

// ReleaseLock sets a TTL on the lock key for eventual cleanup.
func (r *redisIdempotency) ReleaseLock(ctx context.Context, jobID string) error {
	key := exportKeyPrefix + jobID
	return r.client.Expire(ctx, key, exportLockTTL).Err()
}
