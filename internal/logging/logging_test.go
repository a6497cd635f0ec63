package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hy4ri/todoist-tree/internal/config"
)

func TestNewDisabled(t *testing.T) {
	dir := t.TempDir()
	logger, closer, err := New(config.LogConfig{Enabled: false}, dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	logger.Error("should vanish")
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Errorf("disabled logger created a file: %v", err)
	}
}

func TestNewWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, closer, err := New(config.LogConfig{Enabled: true, Level: "warn"}, dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden below level")
	logger.Warn("dispatch failed", "task", "42")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden below level") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(out, "dispatch failed") || !strings.Contains(out, "task=42") {
		t.Errorf("missing warn line in %q", out)
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Enabled: true, Level: "loud"}, t.TempDir()); err == nil {
		t.Error("expected error for unknown level")
	}
}
