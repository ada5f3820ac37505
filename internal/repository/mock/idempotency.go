package mock

import (
	"context"
	"sync"

	"github.com/Harsh-BH/fieldtools/internal/repository"
)

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore is a test double for repository.IdempotencyStore. By
// default a job id can be acquired once.
type IdempotencyStore struct {
	mu   sync.Mutex
	held map[string]bool

	AcquireLockFn func(ctx context.Context, jobID string) (bool, error)
	ReleaseLockFn func(ctx context.Context, jobID string) error
	ForgetFn      func(ctx context.Context, jobID string) error

	AcquireCalls []string
	ReleaseCalls []string
	ForgetCalls  []string
}

func (m *IdempotencyStore) AcquireLock(ctx context.Context, jobID string) (bool, error) {
	m.mu.Lock()
	m.AcquireCalls = append(m.AcquireCalls, jobID)
	if m.AcquireLockFn != nil {
		m.mu.Unlock()
		return m.AcquireLockFn(ctx, jobID)
	}
	defer m.mu.Unlock()
	if m.held == nil {
		m.held = make(map[string]bool)
	}
	if m.held[jobID] {
		return false, nil
	}
	m.held[jobID] = true
	return true, nil
}

func (m *IdempotencyStore) ReleaseLock(ctx context.Context, jobID string) error {
	m.mu.Lock()
	m.ReleaseCalls = append(m.ReleaseCalls, jobID)
	m.mu.Unlock()
	if m.ReleaseLockFn != nil {
		return m.ReleaseLockFn(ctx, jobID)
	}
	return nil
}

func (m *IdempotencyStore) Forget(ctx context.Context, jobID string) error {
	m.mu.Lock()
	m.ForgetCalls = append(m.ForgetCalls, jobID)
	if m.ForgetFn != nil {
		m.mu.Unlock()
		return m.ForgetFn(ctx, jobID)
	}
	delete(m.held, jobID)
	m.mu.Unlock()
	return nil
}

// Locker is a test double for repository.Locker.
type Locker struct {
	mu sync.Mutex

	AcquireFn func(ctx context.Context) (func(), error)

	Acquired int
	Released int
}

var _ repository.Locker = (*Locker)(nil)

func (l *Locker) Acquire(ctx context.Context) (func(), error) {
	if l.AcquireFn != nil {
		return l.AcquireFn(ctx)
	}
	l.mu.Lock()
	l.Acquired++
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.Released++
		l.mu.Unlock()
	}, nil
}
