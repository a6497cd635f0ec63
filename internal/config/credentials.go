package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/zalando/go-keyring"
)

const (
	// TokenEnv overrides every stored token.
	TokenEnv = "TODOIST_TOKEN"

	keyringService = appName
	keyringUser    = "api-token"
	credFileName   = ".credentials"
)

// ErrEmptyToken is returned when saving a blank token.
var ErrEmptyToken = errors.New("token cannot be empty")

// DataDir returns $XDG_DATA_HOME/todoist-tree, or ~/.local/share/todoist-tree,
// creating it owner-only.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// secretStore is one place a token can live.
type secretStore interface {
	name() string
	load() (string, error)
	save(token string) error
	remove() error
}

type keyringStore struct{}

func (keyringStore) name() string { return "system keyring" }

func (keyringStore) load() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (keyringStore) save(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

func (keyringStore) remove() error {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// fileStore keeps the token in an owner-only file in the data directory,
// for systems without a secret service.
type fileStore struct{}

func (fileStore) path() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

func (s fileStore) name() string {
	path, err := s.path()
	if err != nil {
		return credFileName
	}
	return path
}

func (s fileStore) load() (string, error) {
	path, err := s.path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}

func (s fileStore) save(token string) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, strings.NewReader(token)); err != nil {
		return err
	}
	return os.Chmod(path, 0600)
}

func (s fileStore) remove() error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// secretStores are tried in order. Saving stops at the first that works.
var secretStores = []secretStore{keyringStore{}, fileStore{}}

// StoredToken returns the token saved by SaveToken, or "" when there is none.
// An unreachable keyring is skipped.
func StoredToken() (string, error) {
	var errs []error
	for _, s := range secretStores {
		token, err := s.load()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name(), err))
			continue
		}
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}
	if len(errs) == len(secretStores) {
		return "", errors.Join(errs...)
	}
	return "", nil
}

// SaveToken stores the token in the system keyring, falling back to the
// credentials file. It reports where the token went.
func SaveToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}

	var errs []error
	for _, s := range secretStores {
		if err := s.save(token); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name(), err))
			continue
		}
		return s.name(), nil
	}
	return "", fmt.Errorf("failed to save token: %w", errors.Join(errs...))
}

// ClearToken removes the token from every store. An unreachable keyring
// is not an error.
func ClearToken() error {
	var errs []error
	for _, s := range secretStores {
		err := s.remove()
		if _, isKeyring := s.(keyringStore); err == nil || isKeyring {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name(), err))
	}
	return errors.Join(errs...)
}
