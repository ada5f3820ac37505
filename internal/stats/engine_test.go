package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

var day = time.Date(2025, 11, 17, 8, 0, 0, 0, time.UTC)

func rec(id, tech, address, issue string, minutes int64, sig domain.Signal, start time.Time) domain.JobRecord {
	return domain.JobRecord{
		ID:              id,
		Address:         address,
		Issue:           issue,
		TechName:        tech,
		Signal:          sig,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
	}
}

func TestCompute_Empty(t *testing.T) {
	r := Compute(nil)

	assert.Equal(t, 0, r.TotalJobs)
	assert.Equal(t, int64(0), r.TotalMinutes)
	assert.Equal(t, 0.0, r.AverageMinutesPerJob)
	assert.Equal(t, 0, r.BadSignalCount)
	assert.Equal(t, 0.0, r.BadSignalPercent)
	assert.Empty(t, r.JobsPerTechnician)
	assert.Empty(t, r.JobsPerAddress)
	assert.Empty(t, r.JobsPerDay)
	assert.Nil(t, r.LongestJob)
	assert.Nil(t, r.ShortestJob)
	assert.Equal(t, "", r.MostCommonIssue)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"jobsPerTechnician":{}`)
}

func TestCompute_ThreeJobs(t *testing.T) {
	jobs := domain.JobCollection{
		rec("A", "Jose", "1 Main St", "No sync", 30, domain.SignalBad, day),
		rec("B", "Jose", "1 Main St", "Slow", 10, domain.SignalGood, day.Add(time.Hour)),
		rec("C", "Ana", "2 Oak Ave", "No sync", 20, domain.SignalGood, day.Add(24*time.Hour)),
	}

	r := Compute(jobs)

	assert.Equal(t, 3, r.TotalJobs)
	assert.Equal(t, int64(60), r.TotalMinutes)
	assert.Equal(t, 20.0, r.AverageMinutesPerJob)
	assert.Equal(t, 1, r.BadSignalCount)
	assert.Equal(t, 33.33, r.BadSignalPercent)
	assert.Equal(t, map[string]int{"Jose": 2, "Ana": 1}, r.JobsPerTechnician)
	assert.Equal(t, map[string]int{"1 Main St": 2, "2 Oak Ave": 1}, r.JobsPerAddress)
	assert.Equal(t, map[string]int{"2025-11-17": 2, "2025-11-18": 1}, r.JobsPerDay)
	require.NotNil(t, r.LongestJob)
	assert.Equal(t, "A", r.LongestJob.ID)
	require.NotNil(t, r.ShortestJob)
	assert.Equal(t, "B", r.ShortestJob.ID)
	assert.Equal(t, "No sync", r.MostCommonIssue)
}

func TestCompute_FairIsNotBad(t *testing.T) {
	r := Compute(domain.JobCollection{rec("1", "Ana", "x", "i", 5, domain.SignalFair, day)})
	assert.Equal(t, 0, r.BadSignalCount)
}

func TestCompute_TiesGoToEarliest(t *testing.T) {
	jobs := domain.JobCollection{
		rec("1", "Ana", "x", "Outage", 15, domain.SignalGood, day),
		rec("2", "Ana", "x", "Noise", 15, domain.SignalGood, day),
		rec("3", "Ana", "x", "Noise", 15, domain.SignalGood, day),
		rec("4", "Ana", "x", "Outage", 15, domain.SignalGood, day),
	}

	r := Compute(jobs)

	assert.Equal(t, "1", r.LongestJob.ID)
	assert.Equal(t, "1", r.ShortestJob.ID)
	assert.Equal(t, "Outage", r.MostCommonIssue)
}

func TestCompute_AverageRounding(t *testing.T) {
	jobs := domain.JobCollection{
		rec("1", "Ana", "x", "i", 10, domain.SignalGood, day),
		rec("2", "Ana", "x", "i", 10, domain.SignalGood, day),
		rec("3", "Ana", "x", "i", 12, domain.SignalGood, day),
	}
	assert.Equal(t, 10.67, Compute(jobs).AverageMinutesPerJob)
}

func TestCompute_Deterministic(t *testing.T) {
	jobs := domain.JobCollection{
		rec("1", "Zed", "b", "i", 1, domain.SignalBad, day),
		rec("2", "Amy", "a", "j", 2, domain.SignalGood, day),
		rec("3", "Max", "c", "k", 3, domain.SignalFair, day),
	}

	first, err := json.Marshal(Compute(jobs))
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := json.Marshal(Compute(jobs))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestCompute_DoesNotAliasInput(t *testing.T) {
	jobs := domain.JobCollection{rec("1", "Ana", "x", "i", 5, domain.SignalGood, day)}
	r := Compute(jobs)
	jobs[0].ID = "changed"
	assert.Equal(t, "1", r.LongestJob.ID)
}
