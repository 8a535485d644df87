// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/balkashynov/tick/internal/logging"
)

// Storage backends.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Default values.
const (
	DefaultDir        = "~/.tick"
	DefaultConfigFile = DefaultDir + "/config.toml"
	DefaultDataFile   = DefaultDir + "/tasks.json"
	DefaultDBFile     = DefaultDir + "/tick.db"
	DefaultSchedule   = "@hourly"
)

// Environment variables.
const (
	EnvConfig    = "TICK_CONFIG"
	EnvFile      = "TICK_FILE"
	EnvDBFile    = "TICK_DB_FILE"
	EnvStorage   = "TICK_STORAGE"
	EnvLogLevel  = "TICK_LOG_LEVEL"
	EnvLogFormat = "TICK_LOG_FORMAT"
)

// Config holds the full configuration for tick.
type Config struct {
	// Paths
	DataFile string `toml:"data_file"`
	DBFile   string `toml:"db_file"`

	// Storage selects the backend: json or sqlite
	Storage string `toml:"storage"`

	Log        LogConfig        `toml:"log"`
	Recurrence RecurrenceConfig `toml:"recurrence"`

	// Path of the config file that was read, empty if none (computed)
	Source string `toml:"-"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// RecurrenceConfig controls recurring task rollover.
type RecurrenceConfig struct {
	// CheckOnStart rolls recurring tasks before every command
	CheckOnStart bool `toml:"check_on_start"`
	// LegacyDaily rolls daily tasks on every check, even on the same day
	LegacyDaily bool `toml:"legacy_daily"`
	// Schedule is the cron spec used by `tick roll --watch`
	Schedule string `toml:"schedule"`
}

// Overrides are values given on the command line; empty fields are ignored.
type Overrides struct {
	ConfigFile string
	DataFile   string
	LogLevel   string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataFile: DefaultDataFile,
		DBFile:   DefaultDBFile,
		Storage:  StorageJSON,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Recurrence: RecurrenceConfig{
			CheckOnStart: true,
			Schedule:     DefaultSchedule,
		},
	}
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (--config, $TICK_CONFIG, or ~/.tick/config.toml)
// 3. Environment variables
// 4. CLI flags
func Load(o Overrides) (*Config, error) {
	cfg := Default()

	path, explicit := o.ConfigFile, o.ConfigFile != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultConfigFile
		}
	}
	path = expandPath(path)

	if err := loadConfigFile(cfg, path); err != nil {
		// Only a file the user pointed at has to exist
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else {
		cfg.Source = path
	}

	loadFromEnv(cfg)

	if o.DataFile != "" {
		cfg.DataFile = o.DataFile
		cfg.DBFile = o.DataFile
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile decodes TOML from path into cfg. Unknown keys are an
// error so typos don't silently fall back to defaults.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv(EnvFile); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv(EnvDBFile); v != "" {
		cfg.DBFile = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
}

// finalizeConfig normalizes and validates the merged values.
func finalizeConfig(cfg *Config) error {
	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.DBFile = expandPath(cfg.DBFile)
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))

	switch cfg.Storage {
	case StorageJSON, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage %q: use %s or %s", cfg.Storage, StorageJSON, StorageSQLite)
	}
	if !logging.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	if !logging.ValidFormat(cfg.Log.Format) {
		return fmt.Errorf("invalid log format %q: use text, json or logfmt", cfg.Log.Format)
	}
	if strings.TrimSpace(cfg.Recurrence.Schedule) == "" {
		cfg.Recurrence.Schedule = DefaultSchedule
	}
	return nil
}

// DataPath returns the location of the selected backend's data.
func (c *Config) DataPath() string {
	if c.Storage == StorageSQLite {
		return c.DBFile
	}
	return c.DataFile
}
