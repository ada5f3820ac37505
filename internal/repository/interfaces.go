package repository

import (
	"context"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

// Medium is the storage adapter behind a JobStore. Read returns the stored
// collection in append order (empty, not an error, when nothing is stored);
// Write replaces it atomically.
type Medium interface {
	Read(ctx context.Context) (domain.JobCollection, error)
	Write(ctx context.Context, jobs domain.JobCollection) error
}

// Appender is implemented by mediums that can persist a single new record
// without rewriting the collection. Append must fail with a
// *domain.DuplicateIDError when the medium itself detects a duplicate id.
type Appender interface {
	Append(ctx context.Context, job domain.JobRecord) error
}

// Pinger is implemented by mediums backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Locker serializes appends across processes. Acquire blocks until the lock
// is held or ctx is done and returns the function that releases it.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// JobRepository is the persistence contract the job service depends on.
// Implementations must be safe for concurrent use.
type JobRepository interface {
	// Append persists a new record, rejecting a duplicate id.
	Append(ctx context.Context, job domain.JobRecord) error

	// All returns every stored record in append order.
	All(ctx context.Context) (domain.JobCollection, error)
}

// IdempotencyStore guards against exporting the same job twice when the
// broker redelivers a message.
type IdempotencyStore interface {
	// AcquireLock returns true if the lock was acquired (first time), false if already held.
	AcquireLock(ctx context.Context, jobID string) (bool, error)

	// ReleaseLock sets a TTL on the lock so it is eventually cleaned up.
	ReleaseLock(ctx context.Context, jobID string) error

	// Forget drops the lock so a redelivery of a failed export is retried.
	Forget(ctx context.Context, jobID string) error
}
