// Package report renders a printable summary of a single job.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

const title = "Field Tools Job Report"

// Write renders job as an aligned plain-text report.
func Write(w io.Writer, job domain.JobRecord) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Job ID", job.ID},
		{"Tech", job.TechName},
		{"Address", job.Address},
		{"Issue", job.Issue},
		{"Resolution", job.Resolution},
		{"Signal", string(job.Signal)},
		{"Start Time", job.StartTime.Format(domain.SheetTimeLayout)},
		{"End Time", job.EndTime.Format(domain.SheetTimeLayout)},
		{"Duration (min)", fmt.Sprintf("%d", job.DurationMinutes)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Bytes returns the report for job.
func Bytes(job domain.JobRecord) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, job)
	return buf.Bytes()
}
