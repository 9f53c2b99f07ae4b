// Package config loads the amistore configuration from YAML and the environment.
//
//	data_dir: ./db
//	backend: portable
//	use_mmap: true
//	avoid_reserved_names: true
//	atomic_writes: false
//	auto_register: true
//	log_level: info
//	log_json: false
//	snapshot_compression: zstd
//
// Keys absent from the file keep their defaults. AMISTORE_DATA_DIR and
// AMISTORE_LOG_LEVEL override the file.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/format"
	"github.com/arloliu/amistore/internal/logging"
	"github.com/arloliu/amistore/store"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the configuration layer.
const (
	EnvConfig   = "AMISTORE_CONFIG"
	EnvDataDir  = "AMISTORE_DATA_DIR"
	EnvLogLevel = "AMISTORE_LOG_LEVEL"
)

// Config is the complete amistore configuration.
type Config struct {
	// DataDir is the store root directory.
	DataDir string `yaml:"data_dir"`

	// Backend names the codec backend (portable or native). Empty defers to
	// AMISTORE_BACKEND.
	Backend string `yaml:"backend"`

	UseMmap            bool `yaml:"use_mmap"`
	AvoidReservedNames bool `yaml:"avoid_reserved_names"`
	AtomicWrites       bool `yaml:"atomic_writes"`
	AutoRegister       bool `yaml:"auto_register"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// SnapshotCompression is the default backup codec: none, zstd, s2 or lz4.
	SnapshotCompression string `yaml:"snapshot_compression"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:             "./db",
		UseMmap:             true,
		AvoidReservedNames:  true,
		AtomicWrites:        false,
		AutoRegister:        true,
		LogLevel:            "info",
		SnapshotCompression: "zstd",
	}
}

// Load reads a YAML file over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it is not empty, and otherwise returns the
// defaults with environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	c.DataDir = getEnv(EnvDataDir, c.DataDir)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Compression returns the configured snapshot codec, zstd when unset.
func (c *Config) Compression() format.CompressionType {
	if c.SnapshotCompression == "" {
		return format.CompressionZstd
	}

	ct, _ := format.ParseCompressionType(c.SnapshotCompression)

	return ct
}

// StoreOptions translates the configuration into store options.
//
// An unavailable or unknown backend falls back to the portable one; the fallback is
// logged, never returned as an error.
func (c *Config) StoreOptions(logger *slog.Logger) []store.Option {
	opts := []store.Option{
		store.WithMmap(c.UseMmap),
		store.WithReservedNameSanitizing(c.AvoidReservedNames),
		store.WithAtomicWrites(c.AtomicWrites),
		store.WithAutoRegister(c.AutoRegister),
	}

	if logger != nil {
		opts = append(opts, store.WithLogger(logger))
	}

	if c.Backend != "" {
		backend, sel := encoding.Select(c.Backend)
		if sel.Fallback {
			l := logger
			if l == nil {
				l = logging.Component("config")
			}
			l.Warn("codec backend unavailable, using portable",
				"requested", c.Backend,
				"reason", sel.Reason,
			)
		}
		opts = append(opts, store.WithBackend(backend))
	}

	return opts
}
