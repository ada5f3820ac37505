package mock

import (
	"context"
	"sync"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

var _ repository.Medium = (*Medium)(nil)

// Medium is an in-memory repository.Medium. It does not implement
// repository.Appender, so a JobStore over it exercises the full
// read-modify-write path.
type Medium struct {
	mu   sync.Mutex
	jobs domain.JobCollection

	ReadFn  func(ctx context.Context) (domain.JobCollection, error)
	WriteFn func(ctx context.Context, jobs domain.JobCollection) error

	// Recorded calls for assertions.
	Reads  int
	Writes int
}

func (m *Medium) Read(ctx context.Context) (domain.JobCollection, error) {
	m.mu.Lock()
	m.Reads++
	m.mu.Unlock()
	if m.ReadFn != nil {
		return m.ReadFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(domain.JobCollection, len(m.jobs))
	copy(out, m.jobs)
	return out, nil
}

func (m *Medium) Write(ctx context.Context, jobs domain.JobCollection) error {
	m.mu.Lock()
	m.Writes++
	m.mu.Unlock()
	if m.WriteFn != nil {
		return m.WriteFn(ctx, jobs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = make(domain.JobCollection, len(jobs))
	copy(m.jobs, jobs)
	return nil
}

// Stored returns the last written collection.
func (m *Medium) Stored() domain.JobCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(domain.JobCollection, len(m.jobs))
	copy(out, m.jobs)
	return out
}
