package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the snapshot as a single JSON row in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}

	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	version INTEGER NOT NULL,
	saved_at TEXT NOT NULL,
	payload TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load reads the snapshot row.
func (s *SQLiteStore) Load() (*Snapshot, error) {
	var (
		version int
		payload string
	)
	err := s.db.QueryRow(`SELECT version, payload FROM snapshots WHERE id = 1;`).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	if version != SnapshotVersion {
		return nil, ErrNoSnapshot
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save replaces the snapshot row.
func (s *SQLiteStore) Save(snap *Snapshot) error {
	stamp(snap)

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.Exec(`
INSERT INTO snapshots (id, version, saved_at, payload) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET version = excluded.version, saved_at = excluded.saved_at, payload = excluded.payload;`,
		snap.Version, snap.SavedAt.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Clear deletes the snapshot row.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM snapshots;`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
