package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

func openTemp(t *testing.T) *Medium {
	t.Helper()
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func job(id string) domain.JobRecord {
	start := time.Date(2025, 11, 17, 16, 0, 0, 0, time.UTC)
	return domain.JobRecord{
		ID: id, Address: "1 Main St", Issue: "Outage", TechName: "Ana",
		Signal: domain.SignalGood, StartTime: start, EndTime: start.Add(5 * time.Minute), DurationMinutes: 5,
	}
}

func TestMedium_EmptyRead(t *testing.T) {
	jobs, err := openTemp(t).Read(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestMedium_AppendOrderAndDuplicate(t *testing.T) {
	ctx := context.Background()
	m := openTemp(t)

	// More than nine records checks that sequence keys sort numerically.
	ids := []string{"k", "b", "z", "a", "q", "c", "x", "d", "y", "e", "w"}
	for _, id := range ids {
		require.NoError(t, m.Append(ctx, job(id)))
	}
	assert.ErrorIs(t, m.Append(ctx, job("q")), domain.ErrDuplicateID)

	jobs, err := m.Read(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, jobs[i].ID)
	}
}

func TestMedium_WriteReplaces(t *testing.T) {
	ctx := context.Background()
	m := openTemp(t)
	require.NoError(t, m.Append(ctx, job("old")))

	require.NoError(t, m.Write(ctx, domain.JobCollection{job("1"), job("2")}))

	jobs, err := m.Read(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "1", jobs[0].ID)

	// The id index was rebuilt too.
	require.NoError(t, m.Append(ctx, job("old")))
	assert.ErrorIs(t, m.Append(ctx, job("2")), domain.ErrDuplicateID)
}

func TestMedium_ThroughJobStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewJobStore(openTemp(t))

	require.NoError(t, store.Append(ctx, job("1")))
	assert.ErrorIs(t, store.Append(ctx, job("1")), domain.ErrDuplicateID)

	jobs, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCollection{job("1")}, jobs)
}
