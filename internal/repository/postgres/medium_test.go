package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

func TestMapInsertError_UniqueViolation(t *testing.T) {
	err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "field_jobs_id_key"})

	mapped := mapInsertError(err, "42")
	var dup *domain.DuplicateIDError
	if !errors.As(mapped, &dup) {
		t.Fatalf("expected *DuplicateIDError, got %v", mapped)
	}
	if dup.ID != "42" {
		t.Errorf("expected id 42, got %s", dup.ID)
	}
}

func TestMapInsertError_Other(t *testing.T) {
	mapped := mapInsertError(&pgconn.PgError{Code: pgerrcode.CheckViolation}, "1")
	if errors.Is(mapped, domain.ErrDuplicateID) {
		t.Fatal("check violation must not map to duplicate id")
	}
	var pgErr *pgconn.PgError
	if !errors.As(mapped, &pgErr) {
		t.Error("expected the driver error to stay wrapped")
	}
}

func TestInsertArgs_Order(t *testing.T) {
	start := time.Date(2025, 11, 17, 16, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)
	args := insertArgs(domain.JobRecord{
		ID: "1", Address: "a", Issue: "i", Resolution: "r", TechName: "t",
		Signal: domain.SignalFair, StartTime: start, EndTime: start, DurationMinutes: 0,
	}, now)

	if len(args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(args))
	}
	if args[5] != "Fair" {
		t.Errorf("expected signal as plain string, got %v", args[5])
	}
	if args[9] != now {
		t.Errorf("expected created_at last, got %v", args[9])
	}
}
