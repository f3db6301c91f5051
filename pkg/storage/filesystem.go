package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per collection under a base directory.
type FileStore struct {
	baseDir string
}

// NewFileStore ensures the base directory exists and returns a handle.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Read returns the raw collection document.
func (s *FileStore) Read(_ context.Context, collection string) ([]byte, error) {
	if !ValidName(collection) {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	data, err := os.ReadFile(s.Path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}
	return data, nil
}

// Write replaces the collection file via a synced temp file renamed over the
// target.
func (s *FileStore) Write(_ context.Context, collection string, payload []byte) error {
	if !ValidName(collection) {
		return fmt.Errorf("invalid collection name %q", collection)
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("prepare data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.baseDir, "."+collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", collection, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync collection %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close collection %s: %w", collection, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod collection %s: %w", collection, err)
	}
	if err := os.Rename(tmpName, s.Path(collection)); err != nil {
		return fmt.Errorf("replace collection %s: %w", collection, err)
	}
	return nil
}

// Path returns the file backing a collection.
func (s *FileStore) Path(collection string) string {
	return filepath.Join(s.baseDir, collection+".json")
}
