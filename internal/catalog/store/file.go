package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
)

// FileStore keeps the snapshot as a single JSON document on local disk
type FileStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

func NewFileStore(path string, ttl time.Duration) *FileStore {
	return &FileStore{path: path, ttl: ttl, now: time.Now}
}

func (s *FileStore) Path() string { return s.path }

// Read returns the stored snapshot if it is present, non-empty and within ttl
func (s *FileStore) Read(ctx context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSnapshotAbsent
		}
		return nil, fmt.Errorf("read snapshot file %s: %w", s.path, err)
	}
	return decodeFresh(data, s.now(), s.ttl)
}

// Write replaces the stored snapshot. The document is written to a temp file
// in the same directory and renamed over the target.
func (s *FileStore) Write(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot file %s: %w", s.path, err)
	}
	return nil
}

func decodeFresh(data []byte, now time.Time, ttl time.Duration) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if !snap.Fresh(now, ttl) {
		return nil, domain.ErrSnapshotAbsent
	}
	return &snap, nil
}
