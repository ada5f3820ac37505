package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

// Ensure JobStore implements JobRepository.
var _ JobRepository = (*JobStore)(nil)

// JobStore owns the read-modify-append cycle over a Medium and enforces id
// uniqueness. One Append runs at a time per process; a Locker extends that
// across processes.
type JobStore struct {
	medium Medium
	locker Locker
	mu     sync.Mutex
}

// Option configures a JobStore.
type Option func(*JobStore)

// WithLocker serializes appends through l in addition to the in-process mutex.
func WithLocker(l Locker) Option {
	return func(s *JobStore) { s.locker = l }
}

// NewJobStore creates a JobStore over medium.
func NewJobStore(medium Medium, opts ...Option) *JobStore {
	s := &JobStore{medium: medium}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Medium returns the underlying storage adapter.
func (s *JobStore) Medium() Medium {
	return s.medium
}

// Append persists job unless its id is already stored. Medium failures are
// returned as *domain.PersistenceError and leave the stored collection as it was.
func (s *JobStore) Append(ctx context.Context, job domain.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx)
		if err != nil {
			return &domain.PersistenceError{Op: "lock", Err: err}
		}
		defer release()
	}

	current, err := s.medium.Read(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "read", Err: err}
	}
	if current.Contains(job.ID) {
		return &domain.DuplicateIDError{ID: job.ID}
	}

	if ap, ok := s.medium.(Appender); ok {
		err = ap.Append(ctx, job)
	} else {
		next := make(domain.JobCollection, 0, len(current)+1)
		next = append(next, current...)
		next = append(next, job)
		err = s.medium.Write(ctx, next)
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateID) {
			return err
		}
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// All returns every stored record in append order. It never returns nil.
func (s *JobStore) All(ctx context.Context) (domain.JobCollection, error) {
	jobs, err := s.medium.Read(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	if jobs == nil {
		jobs = domain.JobCollection{}
	}
	return jobs, nil
}

// Ping checks the medium when it supports it.
func (s *JobStore) Ping(ctx context.Context) error {
	p, ok := s.medium.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("job store ping: %w", err)
	}
	return nil
}
