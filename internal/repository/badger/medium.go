// Package badger stores jobs in an embedded Badger database, for single-node
// deployments that want crash-safe appends without a database server.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository"
)

var (
	_ repository.Medium   = (*Medium)(nil)
	_ repository.Appender = (*Medium)(nil)
)

const (
	seqPrefix = "jobs/seq/"
	idPrefix  = "jobs/id/"
)

// Medium keeps each record under jobs/seq/<20-digit sequence> so prefix
// iteration returns append order, with an index under jobs/id/<id>.
type Medium struct {
	db *badger.DB
}

// Open opens (or creates) the database under dataDir.
func Open(dataDir string) (*Medium, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("badger: create data dir: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(dataDir, "badger"))
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return &Medium{db: db}, nil
}

// Close releases the database.
func (m *Medium) Close() error {
	return m.db.Close()
}

func (m *Medium) Read(ctx context.Context) (domain.JobCollection, error) {
	jobs := domain.JobCollection{}
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(seqPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var j domain.JobRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &j)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			jobs = append(jobs, j)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: read: %w", err)
	}
	return jobs, nil
}

// Write replaces every stored record in one transaction.
func (m *Medium) Write(ctx context.Context, jobs domain.JobCollection) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, seqPrefix); err != nil {
			return err
		}
		if err := deletePrefix(txn, idPrefix); err != nil {
			return err
		}
		for i := range jobs {
			if err := put(txn, uint64(i+1), jobs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger: write: %w", err)
	}
	return nil
}

// Append stores job after the last record. The id index makes a concurrent
// duplicate fail inside the transaction.
func (m *Medium) Append(ctx context.Context, job domain.JobRecord) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(idPrefix + job.ID)); err == nil {
			return &domain.DuplicateIDError{ID: job.ID}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		last, err := lastSeq(txn)
		if err != nil {
			return err
		}
		return put(txn, last+1, job)
	})
	if errors.Is(err, domain.ErrDuplicateID) {
		return err
	}
	if err != nil {
		return fmt.Errorf("badger: append: %w", err)
	}
	return nil
}

func put(txn *badger.Txn, seq uint64, job domain.JobRecord) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := txn.Set(seqKey(seq), data); err != nil {
		return err
	}
	return txn.Set([]byte(idPrefix+job.ID), seqKey(seq))
}

func seqKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", seqPrefix, seq))
}

func lastSeq(txn *badger.Txn) (uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	// Reverse iteration seeks to the largest key <= the seek key.
	it.Seek([]byte(seqPrefix + "~"))
	if !it.ValidForPrefix([]byte(seqPrefix)) {
		return 0, nil
	}
	var seq uint64
	if _, err := fmt.Sscanf(string(it.Item().Key()[len(seqPrefix):]), "%d", &seq); err != nil {
		return 0, fmt.Errorf("parse sequence key %q: %w", it.Item().Key(), err)
	}
	return seq, nil
}

func deletePrefix(txn *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
