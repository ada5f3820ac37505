// Package file stores the job collection as an indented JSON array on disk,
// the layout of the legacy jobs.json file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

var _ repository.Medium = (*Medium)(nil)

// Medium reads and writes a JSON file. Writes go to a temp file in the same
// directory which is then renamed over the target.
type Medium struct {
	path string
}

// NewMedium returns a medium backed by path. The file need not exist yet.
func NewMedium(path string) *Medium {
	return &Medium{path: path}
}

// Path returns the backing file path.
func (m *Medium) Path() string {
	return m.path
}

func (m *Medium) Read(ctx context.Context) (domain.JobCollection, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.JobCollection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", m.path, err)
	}
	if len(data) == 0 {
		return domain.JobCollection{}, nil
	}

	var jobs domain.JobCollection
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("file: decode %s: %w", m.path, err)
	}
	if jobs == nil {
		jobs = domain.JobCollection{}
	}
	return jobs, nil
}

func (m *Medium) Write(ctx context.Context, jobs domain.JobCollection) error {
	if jobs == nil {
		jobs = domain.JobCollection{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("file: encode: %w", err)
	}
	return WriteAtomic(m.path, append(data, '\n'))
}

// WriteAtomic replaces path with data via a temp file and rename, so readers
// never observe a partially written file.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: rename: %w", err)
	}
	return nil
}
