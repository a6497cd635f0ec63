// Package logging sets up the debug log. The terminal belongs to the UI,
// so everything goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hy4ri/todoist-tree/internal/config"
)

// FileName is the log file created in the data directory when log.file is unset.
const FileName = "todoist-tree.log"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger for cfg and the file it writes to, which the caller
// closes on exit. A disabled config yields a logger that discards
// everything.
func New(cfg config.LogConfig, dataDir string) (*log.Logger, io.Closer, error) {
	if !cfg.Enabled {
		return log.New(io.Discard), nopCloser{}, nil
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	path := cfg.File
	if path == "" {
		path = filepath.Join(dataDir, FileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "todoist-tree",
		Level:           level,
	})
	return logger, f, nil
}
