package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// JSONStore keeps the snapshot in a single JSON file, replaced atomically
// on every save.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the snapshot. A missing file or an outdated layout yields ErrNoSnapshot.
func (s *JSONStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, ErrNoSnapshot
	}
	return &snap, nil
}

// Save writes snap, stamping its version and, if unset, its save time.
func (s *JSONStore) Save(snap *Snapshot) error {
	stamp(snap)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	// atomic.WriteFile does not set permissions on new files
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	return nil
}

// Clear removes the snapshot file.
func (s *JSONStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *JSONStore) Close() error {
	return nil
}
