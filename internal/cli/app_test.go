package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository/mock"
	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer, *mock.MockJobRepository) {
	repo := mock.NewMockJobRepository()
	builder := domain.Builder{
		Now: func() time.Time { return time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC) },
	}
	var out, errOut bytes.Buffer
	app := &App{
		Service: usecase.NewJobService(repo, zap.NewNop(), usecase.WithBuilder(builder)),
		In:      strings.NewReader(""),
		Out:     &out,
		Err:     &errOut,
	}
	return app, &out, &errOut, repo
}

func addArgs(id string) []string {
	return []string{"add", "-id", id, "-tech", "Jose", "-address", "567 D St", "-issue", "Low Light",
		"-signal", "fair", "-start", "2025-11-17 16:00", "-end", "2025-11-17 16:45"}
}

func TestApp_AddWithFlags(t *testing.T) {
	app, out, _, repo := newTestApp()

	code := app.Run(context.Background(), addArgs("42"))
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out.String(), "saved job 42 (Jose, 45 min)")

	jobs := repo.GetAll()
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.SignalFair, jobs[0].Signal)
}

func TestApp_AddValidationFailure(t *testing.T) {
	app, _, errOut, repo := newTestApp()

	code := app.Run(context.Background(), []string{"add", "-tech", "Jose", "-signal", "poor"})
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut.String(), "address")
	assert.Empty(t, repo.GetAll())
}

func TestApp_AddDuplicateJSON(t *testing.T) {
	app, out, _, _ := newTestApp()
	require.Equal(t, ExitOK, app.Run(context.Background(), addArgs("42")))
	out.Reset()

	code := app.Run(context.Background(), append(addArgs("42"), "-json"))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out.String(), `"kind": "duplicate_id"`)
}

func TestApp_AddInteractiveForm(t *testing.T) {
	app, out, _, repo := newTestApp()
	app.Interactive = true
	called := 0
	app.Form = func(ctx context.Context, in io.Reader, w io.Writer) (domain.RawFields, bool, error) {
		called++
		return domain.RawFields{TechName: "Ana", Address: "2 Oak", Issue: "No sync", Signal: "Good"}, true, nil
	}

	require.Equal(t, ExitOK, app.Run(context.Background(), []string{"add"}))
	assert.Equal(t, 1, called)
	assert.Len(t, repo.GetAll(), 1)
	assert.Contains(t, out.String(), "saved job")
}

func TestApp_AddFormCancelled(t *testing.T) {
	app, out, _, repo := newTestApp()
	app.Interactive = true
	app.Form = func(ctx context.Context, in io.Reader, w io.Writer) (domain.RawFields, bool, error) {
		return domain.RawFields{}, false, nil
	}

	require.Equal(t, ExitOK, app.Run(context.Background(), []string{"add"}))
	assert.Contains(t, out.String(), "cancelled")
	assert.Empty(t, repo.GetAll())
}

func TestApp_AddWithoutTerminal(t *testing.T) {
	app, _, errOut, _ := newTestApp()

	assert.Equal(t, ExitUsage, app.Run(context.Background(), []string{"add"}))
	assert.Contains(t, errOut.String(), "not a terminal")
}

func TestApp_ListAndStats(t *testing.T) {
	app, out, _, _ := newTestApp()
	ctx := context.Background()
	require.Equal(t, ExitOK, app.Run(ctx, addArgs("1")))
	require.Equal(t, ExitOK, app.Run(ctx, addArgs("2")))
	out.Reset()

	require.Equal(t, ExitOK, app.Run(ctx, []string{"list", "-format", "json"}))
	assert.Contains(t, out.String(), `"id": "2"`)
	out.Reset()

	require.Equal(t, ExitOK, app.Run(ctx, []string{"stats", "-format", "yaml"}))
	assert.Contains(t, out.String(), "totalJobs: 2")
	assert.Contains(t, out.String(), "totalMinutes: 90")
}

func TestApp_Report(t *testing.T) {
	app, out, errOut, _ := newTestApp()
	ctx := context.Background()
	require.Equal(t, ExitOK, app.Run(ctx, addArgs("42")))
	out.Reset()

	require.Equal(t, ExitOK, app.Run(ctx, []string{"report", "42"}))
	assert.Contains(t, out.String(), "Field Tools Job Report")

	path := filepath.Join(t.TempDir(), "job_42_report.txt")
	require.Equal(t, ExitOK, app.Run(ctx, []string{"report", "-o", path, "42"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Duration (min):  45")

	assert.Equal(t, ExitFailure, app.Run(ctx, []string{"report", "nope"}))
	assert.Contains(t, errOut.String(), "job not found")

	assert.Equal(t, ExitUsage, app.Run(ctx, []string{"report"}))
}

func TestApp_UnknownCommand(t *testing.T) {
	app, _, errOut, _ := newTestApp()
	assert.Equal(t, ExitUsage, app.Run(context.Background(), []string{"delete"}))
	assert.Contains(t, errOut.String(), "unknown command")
	assert.Equal(t, ExitUsage, app.Run(context.Background(), nil))
}
