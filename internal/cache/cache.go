// Package cache persists the last synced snapshot so the interface can
// render immediately on startup, before the first fetch completes.
package cache

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/config"
)

// SnapshotVersion changes whenever the snapshot layout does. Older
// snapshots are ignored rather than migrated.
const SnapshotVersion = 1

// ErrNoSnapshot is returned by Load when nothing usable is cached.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Snapshot is everything needed to redraw the last session.
type Snapshot struct {
	Version  int           `json:"version"`
	SavedAt  time.Time     `json:"saved_at"`
	Projects []api.Project `json:"projects"`
	Sections []api.Section `json:"sections"`
	Tasks    []api.Task    `json:"tasks"`

	SelectedTaskID    string `json:"selected_task_id,omitempty"`
	CursorPosition    int    `json:"cursor_position"`
	SelectedProjectID string `json:"selected_project_id,omitempty"`
	Filter            string `json:"filter,omitempty"`
	Sort              string `json:"sort,omitempty"`
}

// Age returns how long ago the snapshot was saved.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.SavedAt)
}

// Fresh reports whether the snapshot is younger than maxAge. A zero maxAge
// never expires.
func (s *Snapshot) Fresh(maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return true
	}
	return s.Age(now) < maxAge
}

// Store loads and saves snapshots.
type Store interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
	Clear() error
	Close() error
}

// Open returns the store selected by cfg.Cache.
func Open(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return Nop{}, nil
	}

	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}

	switch cfg.Cache.Backend {
	case "", "json":
		return NewJSONStore(filepath.Join(dir, "snapshot.json")), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "snapshot.db"))
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Nop is the store used when caching is disabled.
type Nop struct{}

func (Nop) Load() (*Snapshot, error) { return nil, ErrNoSnapshot }
func (Nop) Save(*Snapshot) error     { return nil }
func (Nop) Clear() error             { return nil }
func (Nop) Close() error             { return nil }

func stamp(snap *Snapshot) {
	snap.Version = SnapshotVersion
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
}
