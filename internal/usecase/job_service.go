package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/metrics"
	"github.com/Harsh-BH/fieldtools/internal/publisher"
	"github.com/Harsh-BH/fieldtools/internal/repository"
	"github.com/Harsh-BH/fieldtools/internal/stats"
)

// JobService is the single entry point front ends use to record jobs and
// read them back. Each call runs to completion before returning.
type JobService struct {
	repo      repository.JobRepository
	publisher publisher.Publisher
	builder   domain.Builder
	logger    *zap.Logger
}

// Option configures a JobService.
type Option func(*JobService)

// WithBuilder replaces the record builder, e.g. to set the timezone used
// for zone-less timestamps or to fix the clock in tests.
func WithBuilder(b domain.Builder) Option {
	return func(s *JobService) { s.builder = b }
}

// WithPublisher announces each saved job. Without it events are dropped.
func WithPublisher(p publisher.Publisher) Option {
	return func(s *JobService) { s.publisher = p }
}

// NewJobService creates a new JobService over repo.
func NewJobService(repo repository.JobRepository, logger *zap.Logger, opts ...Option) *JobService {
	s := &JobService{
		repo:      repo,
		publisher: publisher.Nop{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJob validates raw, appends the record and reports the outcome.
// A failed event publish is logged but the job still counts as saved.
func (s *JobService) CreateJob(ctx context.Context, raw domain.RawFields) domain.CreateResult {
	rec, err := s.builder.Build(raw)
	if err != nil {
		s.logger.Info("Rejected job submission", zap.Error(err))
		return s.failed(err)
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicateID) {
			s.logger.Info("Duplicate job id", zap.String("job_id", rec.ID))
		} else {
			s.logger.Error("Failed to append job", zap.String("job_id", rec.ID), zap.Error(err))
		}
		return s.failed(err)
	}

	metrics.JobsCreatedTotal.WithLabelValues("saved").Inc()
	s.logger.Info("Job saved",
		zap.String("job_id", rec.ID),
		zap.String("tech", rec.TechName),
		zap.String("signal", string(rec.Signal)),
		zap.Int64("duration_minutes", rec.DurationMinutes),
	)

	event := &domain.JobEvent{
		Type:       domain.EventJobCreated,
		Job:        rec,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.PublishFailures.Inc()
		s.logger.Warn("Job saved locally but event publish failed",
			zap.String("job_id", rec.ID),
			zap.Error(err),
		)
	}

	return domain.CreateResult{Saved: true, Job: &rec}
}

func (s *JobService) failed(err error) domain.CreateResult {
	detail := domain.DetailOf(err)
	metrics.JobsCreatedTotal.WithLabelValues(string(detail.Kind)).Inc()
	return domain.CreateResult{Saved: false, Error: detail, Err: err}
}

// ListJobs returns every stored record in append order.
func (s *JobService) ListJobs(ctx context.Context) (domain.JobCollection, error) {
	jobs, err := s.repo.All(ctx)
	if err != nil {
		s.logger.Error("Failed to read jobs", zap.Error(err))
		return nil, err
	}
	metrics.StoredJobs.Set(float64(len(jobs)))
	return jobs, nil
}

// GetStats reads the store and computes a fresh report.
func (s *JobService) GetStats(ctx context.Context) (domain.StatsReport, error) {
	start := time.Now()
	jobs, err := s.ListJobs(ctx)
	if err != nil {
		return domain.StatsReport{}, err
	}
	report := stats.Compute(jobs)
	metrics.StatsComputeDuration.Observe(time.Since(start).Seconds())
	return report, nil
}

// GetJob returns the record with the given id or domain.ErrJobNotFound.
func (s *JobService) GetJob(ctx context.Context, id string) (domain.JobRecord, error) {
	jobs, err := s.ListJobs(ctx)
	if err != nil {
		return domain.JobRecord{}, err
	}
	job, ok := jobs.Find(id)
	if !ok {
		s.logger.Debug("Job not found", zap.String("job_id", id))
		return domain.JobRecord{}, domain.ErrJobNotFound
	}
	return job, nil
}
