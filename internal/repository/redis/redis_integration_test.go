//go:build integration

package redis

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: REDIS_URL=redis://localhost:6379/15 go test -tags integration ./internal/repository/redis/

func setupTestRedis(t *testing.T) goredis.UniversalClient {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIdempotency_AcquireOnce(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisIdempotencyStore(client)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, exportKeyPrefix+id) })

	ok, err := store.AcquireLock(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcquireLock(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.ReleaseLock(ctx, id))
}

func TestIdempotency_ForgetAllowsRetry(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisIdempotencyStore(client)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, exportKeyPrefix+id) })

	ok, err := store.AcquireLock(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Forget(ctx, id))

	ok, err = store.AcquireLock(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAppendLock_MutualExclusion(t *testing.T) {
	client := setupTestRedis(t)
	lock := NewAppendLock(client, uuid.NewString())

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lock.Acquire(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			time.Sleep(10 * time.Millisecond)
			inside.Add(-1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside.Load())
}

func TestAppendLock_ContextCanceled(t *testing.T) {
	client := setupTestRedis(t)
	lock := NewAppendLock(client, uuid.NewString())

	release, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = lock.Acquire(ctx)
	assert.Error(t, err)
}
