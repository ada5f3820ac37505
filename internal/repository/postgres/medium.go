package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

// Ensure Medium implements the repository interfaces.
var (
	_ repository.Medium   = (*Medium)(nil)
	_ repository.Appender = (*Medium)(nil)
	_ repository.Pinger   = (*Medium)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS field_jobs (
	seq              BIGSERIAL PRIMARY KEY,
	id               TEXT NOT NULL UNIQUE,
	address          TEXT NOT NULL,
	issue            TEXT NOT NULL,
	resolution       TEXT NOT NULL DEFAULT '',
	tech_name        TEXT NOT NULL,
	signal           TEXT NOT NULL CHECK (signal IN ('Good', 'Fair', 'Bad')),
	start_time       TIMESTAMPTZ NOT NULL,
	end_time         TIMESTAMPTZ NOT NULL,
	duration_minutes BIGINT NOT NULL CHECK (duration_minutes >= 0),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertJob = `
	INSERT INTO field_jobs (id, address, issue, resolution, tech_name, signal, start_time, end_time, duration_minutes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Medium stores jobs in PostgreSQL. Append order is the seq column.
type Medium struct {
	pool *pgxpool.Pool
}

// NewMedium creates a new PostgreSQL-backed medium.
func NewMedium(pool *pgxpool.Pool) *Medium {
	return &Medium{pool: pool}
}

// EnsureSchema creates the field_jobs table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

func (m *Medium) Read(ctx context.Context) (domain.JobCollection, error) {
	query := `
		SELECT id, address, issue, resolution, tech_name, signal,
		       start_time, end_time, duration_minutes
		FROM field_jobs
		ORDER BY seq`

	rows, err := m.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list jobs: %w", err)
	}
	defer rows.Close()

	jobs := domain.JobCollection{}
	for rows.Next() {
		var j domain.JobRecord
		if err := rows.Scan(
			&j.ID, &j.Address, &j.Issue, &j.Resolution, &j.TechName, &j.Signal,
			&j.StartTime, &j.EndTime, &j.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list jobs: %w", err)
	}
	return jobs, nil
}

// Write replaces the table contents with jobs in one transaction.
func (m *Medium) Write(ctx context.Context, jobs domain.JobCollection) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM field_jobs`); err != nil {
		return fmt.Errorf("postgres: clear jobs: %w", err)
	}

	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for _, j := range jobs {
		batch.Queue(insertJob, insertArgs(j, now)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapInsertError(err, "")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Append inserts a single job. A unique violation from a concurrent writer
// is reported as a duplicate id.
func (m *Medium) Append(ctx context.Context, job domain.JobRecord) error {
	if _, err := m.pool.Exec(ctx, insertJob, insertArgs(job, time.Now().UTC())...); err != nil {
		return mapInsertError(err, job.ID)
	}
	return nil
}

func (m *Medium) Ping(ctx context.Context) error {
	return m.pool.Ping(ctx)
}

func insertArgs(j domain.JobRecord, now time.Time) []any {
	return []any{
		j.ID, j.Address, j.Issue, j.Resolution, j.TechName, string(j.Signal),
		j.StartTime, j.EndTime, j.DurationMinutes, now,
	}
}

func mapInsertError(err error, id string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return &domain.DuplicateIDError{ID: id}
	}
	return fmt.Errorf("postgres: insert job: %w", err)
}
