package pool

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/exporter"
	"github.com/Harsh-BH/fieldtools/internal/metrics"
)

// WorkerPool manages a fixed-size pool of goroutines that export jobs.
type WorkerPool struct {
	size     int
	jobs     <-chan *domain.JobMessage
	exportUC *exporter.ExportJobUsecase
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new fixed-size worker pool.
func NewWorkerPool(size int, jobs <-chan *domain.JobMessage, exportUC *exporter.ExportJobUsecase, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:     size,
		jobs:     jobs,
		exportUC: exportUC,
		logger:   logger,
	}
}

// Start launches all worker goroutines. Call Stop to wait for them to finish.
func (p *WorkerPool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", zap.Int("pool_size", p.size))

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop waits for all workers to finish their current jobs and exit.
func (p *WorkerPool) Stop() {
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Worker shutting down", zap.Int("worker_id", id))
			return
		case msg, ok := <-p.jobs:
			if !ok {
				p.logger.Debug("Job channel closed", zap.Int("worker_id", id))
				return
			}
			p.handle(ctx, id, msg)
		}
	}
}

// handle exports one message and settles it with exactly one Ack or Nack.
func (p *WorkerPool) handle(ctx context.Context, id int, msg *domain.JobMessage) {
	jobID := ""
	if msg.Event != nil {
		jobID = msg.Event.Job.ID
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Worker panic recovered",
				zap.Int("worker_id", id),
				zap.String("job_id", jobID),
				zap.Any("panic", r),
			)
			metrics.ExportsTotal.WithLabelValues("error").Inc()
			if nackErr := msg.Nack(false); nackErr != nil {
				p.logger.Error("Failed to NACK message", zap.String("job_id", jobID), zap.Error(nackErr))
			}
		}
	}()

	p.logger.Info("Worker exporting job",
		zap.Int("worker_id", id),
		zap.String("job_id", jobID),
	)

	startTime := time.Now()
	isDuplicate, err := p.export(ctx, msg.Event)
	elapsed := time.Since(startTime).Seconds()

	if err != nil {
		p.logger.Error("Job export failed",
			zap.Int("worker_id", id),
			zap.String("job_id", jobID),
			zap.Error(err),
		)

		// Nack without requeue: failed exports go to the DLQ for replay.
		if nackErr := msg.Nack(false); nackErr != nil {
			p.logger.Error("Failed to NACK message",
				zap.String("job_id", jobID),
				zap.Error(nackErr),
			)
		}

		metrics.ExportsTotal.WithLabelValues("error").Inc()
		metrics.ExportDuration.Observe(elapsed)
		return
	}

	if isDuplicate {
		p.logger.Debug("Duplicate job skipped",
			zap.Int("worker_id", id),
			zap.String("job_id", jobID),
		)
		// Duplicate → still ACK so the message is removed from the queue.
		if ackErr := msg.Ack(); ackErr != nil {
			p.logger.Error("Failed to ACK duplicate message",
				zap.String("job_id", jobID),
				zap.Error(ackErr),
			)
		}
		metrics.ExportsTotal.WithLabelValues("duplicate").Inc()
		return
	}

	if ackErr := msg.Ack(); ackErr != nil {
		p.logger.Error("Failed to ACK message after export",
			zap.String("job_id", jobID),
			zap.Error(ackErr),
		)
	}

	metrics.ExportsTotal.WithLabelValues("exported").Inc()
	metrics.ExportDuration.Observe(elapsed)
}

func (p *WorkerPool) export(ctx context.Context, event *domain.JobEvent) (bool, error) {
	// Track active workers gauge.
	metrics.WorkersActive.Inc()
	defer metrics.WorkersActive.Dec()

	return p.exportUC.Execute(ctx, event)
}
