package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/stats"
)

func sampleJobs() domain.JobCollection {
	start := time.Date(2025, 11, 17, 9, 0, 0, 0, time.UTC)
	return domain.JobCollection{
		{ID: "A", TechName: "Jose", Address: "1 Main", Issue: "No sync", Signal: domain.SignalBad,
			StartTime: start, EndTime: start.Add(30 * time.Minute), DurationMinutes: 30},
		{ID: "B", TechName: "Ana", Address: "2 Oak", Issue: "Low Light", Signal: domain.SignalGood,
			StartTime: start, EndTime: start.Add(10 * time.Minute), DurationMinutes: 10},
	}
}

func TestRenderJobs_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJobs(&buf, sampleJobs(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Jose")
	assert.Contains(t, out, "2 Oak")
	assert.Contains(t, out, "2025-11-17 09:00")
	assert.Contains(t, out, "2 job(s)")
}

func TestRenderJobs_JSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJobs(&buf, sampleJobs(), FormatJSON))
	var decoded domain.JobCollection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "A", decoded[0].ID)

	buf.Reset()
	require.NoError(t, RenderJobs(&buf, sampleJobs(), FormatYAML))
	var doc []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc, 2)
	assert.Equal(t, "Jose", doc[0]["techName"])
	assert.Equal(t, 30, doc[0]["durationMinutes"])
}

func TestRenderStats(t *testing.T) {
	report := stats.Compute(sampleJobs())

	var buf bytes.Buffer
	require.NoError(t, RenderStats(&buf, report, FormatTable))
	out := buf.String()
	assert.Contains(t, out, "Total jobs")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "A (Jose, 30 min)")
	assert.Contains(t, out, "2025-11-17")

	buf.Reset()
	require.NoError(t, RenderStats(&buf, report, FormatYAML))
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc["totalJobs"])
}

func TestRenderStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderStats(&buf, stats.Compute(nil), FormatTable))
	assert.Contains(t, buf.String(), "Shortest job")
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderJobs(&buf, nil, "xml"))
	assert.Error(t, RenderStats(&buf, domain.StatsReport{}, "xml"))
}
