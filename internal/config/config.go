// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const appName = "todoist-tree"

// Config represents the application configuration.
type Config struct {
	Auth     AuthConfig     `yaml:"auth" toml:"auth"`
	UI       UIConfig       `yaml:"ui" toml:"ui"`
	Cache    CacheConfig    `yaml:"cache" toml:"cache"`
	Dispatch DispatchConfig `yaml:"dispatch" toml:"dispatch"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// AuthConfig holds authentication-related settings.
type AuthConfig struct {
	// APIToken is the personal API token. Prefer the keyring (--login).
	APIToken string `yaml:"api_token,omitempty" toml:"api_token,omitempty"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	VimMode        bool   `yaml:"vim_mode" toml:"vim_mode"`
	DefaultSort    string `yaml:"default_sort" toml:"default_sort"`     // "priority" or "date"
	DefaultFilter  string `yaml:"default_filter" toml:"default_filter"` // "all", "today" or "overdue"
	NotifyFailures bool   `yaml:"notify_failures" toml:"notify_failures"`
	ShowChildCount bool   `yaml:"show_child_count" toml:"show_child_count"`
}

// CacheConfig controls the on-disk snapshot.
type CacheConfig struct {
	Enabled bool     `yaml:"enabled" toml:"enabled"`
	Backend string   `yaml:"backend" toml:"backend"` // "json" or "sqlite"
	MaxAge  Duration `yaml:"max_age" toml:"max_age"`
	Dir     string   `yaml:"dir,omitempty" toml:"dir,omitempty"`
}

// DispatchConfig tunes the background request workers.
type DispatchConfig struct {
	Workers int      `yaml:"workers" toml:"workers"`
	Timeout Duration `yaml:"timeout" toml:"timeout"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Level   string `yaml:"level" toml:"level"`
	File    string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// Duration is a time.Duration written as "90s" or "24h" in config files.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			VimMode:        true,
			DefaultSort:    "priority",
			DefaultFilter:  "all",
			NotifyFailures: true,
			ShowChildCount: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "json",
			MaxAge:  Duration{24 * time.Hour},
		},
		Dispatch: DispatchConfig{
			Workers: 5,
			Timeout: Duration{15 * time.Second},
		},
		Log: LogConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// Validate reports the first setting that holds an unsupported value.
func (c *Config) Validate() error {
	switch c.UI.DefaultSort {
	case "", "priority", "date":
	default:
		return fmt.Errorf("ui.default_sort: unsupported value %q", c.UI.DefaultSort)
	}
	switch c.UI.DefaultFilter {
	case "", "all", "today", "overdue":
	default:
		return fmt.Errorf("ui.default_filter: unsupported value %q", c.UI.DefaultFilter)
	}
	switch c.Cache.Backend {
	case "", "json", "sqlite":
	default:
		return fmt.Errorf("cache.backend: unsupported value %q", c.Cache.Backend)
	}
	if c.Dispatch.Workers < 0 {
		return errors.New("dispatch.workers: must not be negative")
	}
	return nil
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the YAML configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// CacheDir returns the snapshot directory, honouring cache.dir and XDG_CACHE_HOME.
func (c *Config) CacheDir() (string, error) {
	dir := c.Cache.Dir
	if dir == "" {
		cacheHome := os.Getenv("XDG_CACHE_HOME")
		if cacheHome == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			cacheHome = filepath.Join(homeDir, ".cache")
		}
		dir = filepath.Join(cacheHome, appName)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return dir, nil
}

// Load reads config.yaml, or config.toml when there is no YAML file.
// If neither exists, returns a default configuration.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	for _, name := range []string{"config.yaml", "config.toml"} {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}

	return DefaultConfig(), nil
}

// LoadFile reads a single config file, choosing the decoder by extension.
// Missing keys keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the YAML config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path with owner-only permissions.
func SaveFile(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Token returns the API token, checking TODOIST_TOKEN, then auth.api_token,
// then the keyring and credentials file.
func (c *Config) Token() (string, error) {
	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(c.Auth.APIToken); token != "" {
		return token, nil
	}
	return StoredToken()
}
