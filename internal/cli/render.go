package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

// Output formats accepted by -format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// RenderJobs writes jobs in the requested format.
func RenderJobs(w io.Writer, jobs domain.JobCollection, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatYAML:
		return writeYAML(w, jobs)
	case FormatTable, "":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	t := newTable("ID", "Tech", "Address", "Issue", "Signal", "Start", "Min")
	for _, j := range jobs {
		t.Row(j.ID, j.TechName, j.Address, j.Issue, string(j.Signal),
			j.StartTime.Format(domain.SheetTimeLayout), strconv.FormatInt(j.DurationMinutes, 10))
	}
	_, err := fmt.Fprintf(w, "%s\n%d job(s)\n", t.Render(), len(jobs))
	return err
}

// RenderStats writes the report in the requested format.
func RenderStats(w io.Writer, r domain.StatsReport, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatTable, "":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	summary := newTable("Metric", "Value").
		Row("Total jobs", strconv.Itoa(r.TotalJobs)).
		Row("Total minutes", strconv.FormatInt(r.TotalMinutes, 10)).
		Row("Avg minutes/job", strconv.FormatFloat(r.AverageMinutesPerJob, 'f', 2, 64)).
		Row("Bad signal", fmt.Sprintf("%d (%.2f%%)", r.BadSignalCount, r.BadSignalPercent)).
		Row("Most common issue", r.MostCommonIssue).
		Row("Longest job", jobSummary(r.LongestJob)).
		Row("Shortest job", jobSummary(r.ShortestJob))
	if _, err := fmt.Fprintln(w, summary.Render()); err != nil {
		return err
	}

	for _, g := range []struct {
		title  string
		counts map[string]int
	}{
		{"Technician", r.JobsPerTechnician},
		{"Address", r.JobsPerAddress},
		{"Day", r.JobsPerDay},
	} {
		if len(g.counts) == 0 {
			continue
		}
		t := newTable(g.title, "Jobs")
		for _, k := range sortedKeys(g.counts) {
			t.Row(k, strconv.Itoa(g.counts[k]))
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

func jobSummary(j *domain.JobRecord) string {
	if j == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s, %d min)", j.ID, j.TechName, j.DurationMinutes)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through the JSON form so YAML keys match the API field names.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
