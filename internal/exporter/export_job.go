package exporter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

// ExportJobUsecase copies a saved job into the sheet store exactly once.
type ExportJobUsecase struct {
	sheet      repository.JobRepository
	idempotent repository.IdempotencyStore
	logger     *zap.Logger
}

// NewExportJobUsecase creates a new ExportJobUsecase.
func NewExportJobUsecase(
	sheet repository.JobRepository,
	idempotent repository.IdempotencyStore,
	logger *zap.Logger,
) *ExportJobUsecase {
	return &ExportJobUsecase{
		sheet:      sheet,
		idempotent: idempotent,
		logger:     logger,
	}
}

// Execute appends the event's job to the sheet. It returns (isDuplicate, error);
// a job already claimed by another delivery or already present in the sheet
// is a duplicate, not an error.
func (uc *ExportJobUsecase) Execute(ctx context.Context, event *domain.JobEvent) (bool, error) {
	if event == nil || event.Job.ID == "" {
		return false, errors.New("exporter: event has no job id")
	}
	job := event.Job

	// Step 1: Idempotency check
	acquired, err := uc.idempotent.AcquireLock(ctx, job.ID)
	if err != nil {
		uc.logger.Error("Failed to acquire idempotency lock", zap.Error(err), zap.String("job_id", job.ID))
		return false, err
	}
	if !acquired {
		uc.logger.Info("Duplicate message detected, skipping", zap.String("job_id", job.ID))
		return true, nil
	}

	// Step 2: Append the row
	if err := uc.sheet.Append(ctx, job); err != nil {
		if errors.Is(err, domain.ErrDuplicateID) {
			uc.logger.Info("Job already in sheet", zap.String("job_id", job.ID))
			return true, nil
		}
		uc.logger.Error("Failed to append job to sheet", zap.Error(err), zap.String("job_id", job.ID))
		if ferr := uc.idempotent.Forget(ctx, job.ID); ferr != nil {
			uc.logger.Warn("Failed to clear idempotency lock", zap.Error(ferr), zap.String("job_id", job.ID))
		}
		return false, fmt.Errorf("exporter: append %s: %w", job.ID, err)
	}

	// Step 3: Release idempotency lock (set TTL for eventual cleanup)
	_ = uc.idempotent.ReleaseLock(ctx, job.ID)

	uc.logger.Info("Job exported to sheet",
		zap.String("job_id", job.ID),
		zap.String("tech", job.TechName),
	)
	return false, nil
}
