package mock

import (
	"context"
	"sync"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

// Ensure MockJobRepository implements repository.JobRepository.
var _ repository.JobRepository = (*MockJobRepository)(nil)

// MockJobRepository is an in-memory job repository for testing.
type MockJobRepository struct {
	mu   sync.RWMutex
	jobs domain.JobCollection

	// Hook functions for injecting errors
	AppendFunc func(ctx context.Context, job domain.JobRecord) error
	AllFunc    func(ctx context.Context) (domain.JobCollection, error)
}

// NewMockJobRepository creates a new mock repository.
func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{}
}

func (m *MockJobRepository) Append(ctx context.Context, job domain.JobRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs.Contains(job.ID) {
		return &domain.DuplicateIDError{ID: job.ID}
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *MockJobRepository) All(ctx context.Context) (domain.JobCollection, error) {
	if m.AllFunc != nil {
		return m.AllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(domain.JobCollection, len(m.jobs))
	copy(out, m.jobs)
	return out, nil
}

// GetAll returns all stored jobs (for test assertions).
func (m *MockJobRepository) GetAll() domain.JobCollection {
	jobs, _ := m.All(context.Background())
	return jobs
}
