package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Harsh-BH/fieldtools/internal/repository"
)

var _ repository.Locker = (*AppendLock)(nil)

const (
	appendLockKey     = "fieldtools:append-lock"
	defaultLockTTL    = 30 * time.Second
	defaultRetryDelay = 50 * time.Millisecond
	defaultMaxWait    = 5 * time.Second
)

// ErrLockTimeout is returned when the append lock could not be acquired in time.
var ErrLockTimeout = errors.New("redis: append lock wait exceeded")

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// AppendLock is a single-key mutex shared by every process appending to the
// same medium. The TTL bounds how long a crashed holder blocks others.
type AppendLock struct {
	client     goredis.UniversalClient
	key        string
	ttl        time.Duration
	retryDelay time.Duration
	maxWait    time.Duration
}

// NewAppendLock creates an append lock. namespace distinguishes stores that
// share one Redis; it may be empty.
func NewAppendLock(client goredis.UniversalClient, namespace string) *AppendLock {
	key := appendLockKey
	if namespace != "" {
		key += ":" + namespace
	}
	return &AppendLock{
		client:     client,
		key:        key,
		ttl:        defaultLockTTL,
		retryDelay: defaultRetryDelay,
		maxWait:    defaultMaxWait,
	}
}

// Acquire spins on SETNX until the lock is taken, ctx is done, or the
// maximum wait elapses.
func (l *AppendLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis: acquire append lock: %w", err)
		}
		if ok {
			return func() {
				// Use a fresh context so a canceled request still releases.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
}
