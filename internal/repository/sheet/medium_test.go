package sheet

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

func job(id, tech string, minutes int64) domain.JobRecord {
	start := time.Date(2025, 11, 17, 16, 0, 0, 0, time.UTC)
	return domain.JobRecord{
		ID:              id,
		Address:         "12 Elm St, Apt 3",
		Issue:           "Intermittent \"sync\" loss",
		Resolution:      "",
		TechName:        tech,
		Signal:          domain.SignalBad,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
	}
}

func TestMedium_AppendWritesHeaderOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	m := NewMedium(path, nil)

	require.NoError(t, m.Append(ctx, job("1", "Jose", 30)))
	require.NoError(t, m.Append(ctx, job("2", "Ana", 10)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Tech,ID,Address,Issue,Resolution,Signal,Start Time,End Time,Duration(min)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Jose,1,"))
}

func TestMedium_ReadBack(t *testing.T) {
	ctx := context.Background()
	m := NewMedium(filepath.Join(t.TempDir(), "jobs.csv"), time.UTC)

	want := domain.JobCollection{job("1", "Jose", 30), job("2", "Ana", 10)}
	require.NoError(t, m.Write(ctx, want))

	got, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMedium_DurationColumnIsAuthoritative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	content := "Tech,ID,Address,Issue,Resolution,Signal,Start Time,End Time,Duration(min)\n" +
		"Jose,9,1 Main St,No dial tone,Reset,good,2025-11-17 16:00,2025-11-17 16:10,9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	jobs, err := NewMedium(path, nil).Read(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, int64(9), jobs[0].DurationMinutes)
	assert.Equal(t, domain.SignalGood, jobs[0].Signal)
}

func TestMedium_RejectsBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	content := "Jose,9,1 Main St,No dial tone,Reset,weak,2025-11-17 16:00,2025-11-17 16:10,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewMedium(path, nil).Read(context.Background())
	assert.ErrorContains(t, err, "row 1")
}

func TestMedium_ThroughJobStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewJobStore(NewMedium(filepath.Join(t.TempDir(), "jobs.csv"), nil))

	require.NoError(t, store.Append(ctx, job("1", "Jose", 30)))
	assert.ErrorIs(t, store.Append(ctx, job("1", "Jose", 30)), domain.ErrDuplicateID)

	jobs, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestMedium_AppendAfterHandEditWithoutTrailingNewline(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	content := "Tech,ID,Address,Issue,Resolution,Signal,Start Time,End Time,Duration(min)\n" +
		"Jose,1,1 Main St,No dial tone,Reset,Good,2025-11-17 16:00,2025-11-17 16:30,30"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store := repository.NewJobStore(NewMedium(path, nil))
	require.NoError(t, store.Append(ctx, job("2", "Ana", 10)))

	jobs, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "1", jobs[0].ID)
	assert.Equal(t, int64(30), jobs[0].DurationMinutes)
	assert.Equal(t, "2", jobs[1].ID)
	assert.Equal(t, "Ana", jobs[1].TechName)
}
