// Package sheet keeps jobs in a CSV spreadsheet laid out like the team's
// shared job sheet, one row per job.
package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
	"github.com/Harsh-BH/fieldtools/internal/repository/file"
)

var (
	_ repository.Medium   = (*Medium)(nil)
	_ repository.Appender = (*Medium)(nil)
)

// Header is the sheet's column order.
var Header = []string{"Tech", "ID", "Address", "Issue", "Resolution", "Signal", "Start Time", "End Time", "Duration(min)"}

// Medium reads and writes the sheet file. Timestamps are stored at minute
// precision in Location; the duration column is authoritative on read.
type Medium struct {
	path     string
	location *time.Location
}

// NewMedium returns a sheet medium at path. A nil loc means UTC.
func NewMedium(path string, loc *time.Location) *Medium {
	if loc == nil {
		loc = time.UTC
	}
	return &Medium{path: path, location: loc}
}

// Path returns the sheet file path.
func (m *Medium) Path() string {
	return m.path
}

func (m *Medium) Read(ctx context.Context) (domain.JobCollection, error) {
	f, err := os.Open(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.JobCollection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", m.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	jobs := domain.JobCollection{}
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("sheet: read %s: %w", m.path, err)
		}
		if line == 1 && strings.EqualFold(row[0], Header[0]) && strings.EqualFold(row[1], Header[1]) {
			continue
		}
		job, err := m.decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("sheet: row %d: %w", line, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (m *Medium) Write(ctx context.Context, jobs domain.JobCollection) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("sheet: encode header: %w", err)
	}
	for i := range jobs {
		if err := w.Write(m.encodeRow(jobs[i])); err != nil {
			return fmt.Errorf("sheet: encode row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("sheet: flush: %w", err)
	}
	return file.WriteAtomic(m.path, buf.Bytes())
}

// Append adds one row, writing the header first when the sheet is new. A
// sheet saved by hand without a final newline gets one before the new row.
func (m *Medium) Append(ctx context.Context, job domain.JobRecord) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("sheet: create dir: %w", err)
	}
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("sheet: open %s: %w", m.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("sheet: stat: %w", err)
	}

	var buf bytes.Buffer
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return fmt.Errorf("sheet: read tail: %w", err)
		}
		if last[0] != '\n' {
			buf.WriteByte('\n')
		}
	}

	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		_ = w.Write(Header)
	}
	if err := w.Write(m.encodeRow(job)); err != nil {
		return fmt.Errorf("sheet: encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("sheet: flush: %w", err)
	}

	// One write call per row so a row is never interleaved with another.
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("sheet: append: %w", err)
	}
	return f.Sync()
}

func (m *Medium) encodeRow(j domain.JobRecord) []string {
	return []string{
		j.TechName,
		j.ID,
		j.Address,
		j.Issue,
		j.Resolution,
		string(j.Signal),
		j.StartTime.In(m.location).Format(domain.SheetTimeLayout),
		j.EndTime.In(m.location).Format(domain.SheetTimeLayout),
		strconv.FormatInt(j.DurationMinutes, 10),
	}
}

func (m *Medium) decodeRow(row []string) (domain.JobRecord, error) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	sig, ok := domain.ParseSignal(row[5])
	if !ok {
		return domain.JobRecord{}, fmt.Errorf("invalid signal %q", row[5])
	}
	start, ok := domain.ParseTimestamp(row[6], m.location)
	if !ok {
		return domain.JobRecord{}, fmt.Errorf("invalid start time %q", row[6])
	}
	end, ok := domain.ParseTimestamp(row[7], m.location)
	if !ok {
		return domain.JobRecord{}, fmt.Errorf("invalid end time %q", row[7])
	}

	duration := int64(end.Sub(start) / time.Minute)
	if row[8] != "" {
		d, err := strconv.ParseFloat(row[8], 64)
		if err != nil {
			return domain.JobRecord{}, fmt.Errorf("invalid duration %q", row[8])
		}
		duration = int64(d)
	}
	if duration < 0 {
		return domain.JobRecord{}, fmt.Errorf("negative duration %d", duration)
	}

	return domain.JobRecord{
		TechName:        row[0],
		ID:              row[1],
		Address:         row[2],
		Issue:           row[3],
		Resolution:      row[4],
		Signal:          sig,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: duration,
	}, nil
}
