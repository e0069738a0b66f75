// Package config provides configuration types and defaults for registrar.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/presentation"
	"github.com/zjrosen/registrar/internal/tracing"
)

// Storage backends accepted in StorageConfig.Backend.
const (
	BackendFlatFile = "flatfile"
	BackendSQLite   = "sqlite"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all configuration options for registrar.
type Config struct {
	// DataDir holds the flat files (and the default SQLite database).
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
	SeedDemo bool   `mapstructure:"seed_demo" yaml:"seed_demo"`

	// AutoRefresh reloads the menu when the data files change on disk.
	AutoRefresh         bool          `mapstructure:"auto_refresh" yaml:"auto_refresh"`
	AutoRefreshDebounce time.Duration `mapstructure:"auto_refresh_debounce" yaml:"auto_refresh_debounce"`

	Storage StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig      `mapstructure:"log" yaml:"log"`
	UI      UIConfig       `mapstructure:"ui" yaml:"ui"`
	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// StorageConfig selects and tunes the row store.
type StorageConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"` // "flatfile" (default) or "sqlite"
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// CacheTTL bounds how long reads are served from memory. Zero disables the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// LogConfig controls the log destination and threshold.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Currency string      `mapstructure:"currency" yaml:"currency"`
	Plain    bool        `mapstructure:"plain" yaml:"plain"` // Line-oriented menu instead of the TUI
	Theme    ThemeConfig `mapstructure:"theme" yaml:"theme"`
}

// ThemeConfig overrides menu colors. Empty values keep the defaults.
type ThemeConfig struct {
	Muted   string `mapstructure:"muted" yaml:"muted"`
	Error   string `mapstructure:"error" yaml:"error"`
	Success string `mapstructure:"success" yaml:"success"`
}

// DefaultConfigDir returns ~/.config/registrar, or "" if the home dir is unavailable.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "registrar")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/registrar/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DataDir:             ".",
		SeedDemo:            true,
		AutoRefresh:         false,
		AutoRefreshDebounce: 500 * time.Millisecond,
		Storage: StorageConfig{
			Backend:    BackendFlatFile,
			SQLitePath: "", // Derived from data_dir at runtime
			CacheTTL:   10 * time.Minute,
		},
		Log: LogConfig{
			File:  "",
			Level: "warn",
		},
		UI: UIConfig{
			Currency: presentation.DefaultCurrency,
			Plain:    false,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// SQLitePath returns the configured database path, defaulting to
// registrar.db inside the data directory.
func (c Config) SQLitePath() string {
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath
	}
	return filepath.Join(c.DataDir, "registrar.db")
}

// TracesFilePath returns the configured trace file, or the default location.
func (c Config) TracesFilePath() string {
	if c.Tracing.FilePath != "" {
		return c.Tracing.FilePath
	}
	return DefaultTracesFilePath()
}

// Validate checks the configuration for errors.
func Validate(c Config) error {
	switch c.Storage.Backend {
	case BackendFlatFile, BackendSQLite:
	default:
		return fmt.Errorf("%w: storage.backend must be %q or %q, got %q",
			ErrInvalid, BackendFlatFile, BackendSQLite, c.Storage.Backend)
	}
	if c.Storage.CacheTTL < 0 {
		return fmt.Errorf("%w: storage.cache_ttl must not be negative, got %s", ErrInvalid, c.Storage.CacheTTL)
	}
	if c.AutoRefreshDebounce < 0 {
		return fmt.Errorf("%w: auto_refresh_debounce must not be negative, got %s", ErrInvalid, c.AutoRefreshDebounce)
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
		}
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("%w: tracing.sample_rate must be between 0.0 and 1.0, got %v", ErrInvalid, t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("%w: tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q",
				ErrInvalid, t.Exporter)
		}
	}

	// The file path falls back to DefaultTracesFilePath, so only otlp needs checking.
	if t.Enabled && t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("%w: tracing.otlp_endpoint is required when exporter is \"otlp\"", ErrInvalid)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Registrar Configuration

# Directory holding students.csv, instructors.csv, courses.csv and enrollments.csv
data_dir: .

# Seed a demo instructor, three courses and two students into an empty catalog
seed_demo: true

# Reload the menu when the data files change on disk
auto_refresh: false
auto_refresh_debounce: 500ms

storage:
  backend: flatfile     # "flatfile" (default) or "sqlite"
  # sqlite_path: ./registrar.db   # Default: <data_dir>/registrar.db
  cache_ttl: 10m        # How long reads are served from memory; 0 disables

log:
  # file: /tmp/registrar.log   # Default: stderr in plain mode, discarded in the TUI
  level: warn           # debug, info, warn, error

ui:
  currency: "₹"
  plain: false          # Use the line-oriented menu instead of the TUI
  # theme:
  #   muted: "#696969"
  #   error: "#FF8787"
  #   success: "#73F59F"

# Tracing (OpenTelemetry)
tracing:
  enabled: false
  exporter: file        # none, file, stdout, otlp
  # file_path: ~/.config/registrar/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: registrar
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
