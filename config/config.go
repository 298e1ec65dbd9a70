// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LAUNCHPAD"

var (
	// ErrInvalidConfig indicates a configuration that failed to load or
	// validate.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidLogLevel indicates a log level other than debug, info, warn
	// or error.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config holds configuration for the launcher.
type Config struct {
	// DataDir is the BadgerDB directory holding counters and deletions.
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`

	// ManifestDir is the directory of app manifests.
	ManifestDir string `yaml:"manifest_dir" envconfig:"MANIFEST_DIR"`

	// LaunchDelay separates a launch from recording it.
	// Default: 1s
	LaunchDelay time.Duration `yaml:"launch_delay" envconfig:"LAUNCH_DELAY"`

	// PoolSize is the number of inventory load workers.
	PoolSize int `yaml:"pool_size" envconfig:"POOL_SIZE"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// WatchDebounce is the quiet period before a manifest change is applied.
	WatchDebounce time.Duration `yaml:"watch_debounce" envconfig:"WATCH_DEBOUNCE"`

	// ShortcutHost allows reading shortcuts. When false the launcher lists
	// apps only.
	ShortcutHost bool `yaml:"shortcut_host" envconfig:"SHORTCUT_HOST"`

	// InMemory keeps counters and deletions in memory. DataDir is ignored.
	InMemory bool `yaml:"in_memory" envconfig:"IN_MEMORY"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithDataDir sets the database directory.
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithManifestDir sets the manifest directory.
func WithManifestDir(dir string) Option {
	return func(c *Config) {
		c.ManifestDir = dir
	}
}

// WithLaunchDelay sets the launch recording delay.
func WithLaunchDelay(d time.Duration) Option {
	return func(c *Config) {
		c.LaunchDelay = d
	}
}

// WithInMemory keeps the store in memory.
func WithInMemory(inMemory bool) Option {
	return func(c *Config) {
		c.InMemory = inMemory
	}
}

// DefaultConfig returns a Config rooted at ~/.launchpad.
func DefaultConfig() *Config {
	root := ".launchpad"
	if home, err := os.UserHomeDir(); err == nil {
		root = filepath.Join(home, ".launchpad")
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	return &Config{
		DataDir:       filepath.Join(root, "db"),
		ManifestDir:   filepath.Join(root, "apps"),
		LaunchDelay:   time.Second,
		PoolSize:      poolSize,
		LogLevel:      "info",
		WatchDebounce: 100 * time.Millisecond,
		ShortcutHost:  true,
	}
}

// NewConfig creates a Config with the default values and applies opts.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// Normalize expands a leading ~ in paths, cleans them and lowercases the
// log level.
func (c *Config) Normalize() {
	c.DataDir = expandPath(c.DataDir)
	c.ManifestDir = expandPath(c.ManifestDir)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.DataDir == "" && !c.InMemory {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	if c.ManifestDir == "" {
		return fmt.Errorf("%w: manifest_dir is required", ErrInvalidConfig)
	}
	if c.LaunchDelay < 0 {
		return fmt.Errorf("%w: launch_delay must not be negative", ErrInvalidConfig)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: pool_size must be at least 1", ErrInvalidConfig)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("%w: watch_debounce must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w %q: must be one of debug, info, warn, error", ErrInvalidLogLevel, s)
	}
}

func expandPath(p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return filepath.Clean(p)
}
