package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// Restore modes for backup restore.
const (
	RestoreBestEffort = "best-effort"
	RestoreAtomic     = "atomic"
)

// Defaults applied to zero-valued fields.
const (
	DefaultAutoSaveDelay = 2 * time.Second
	DefaultKeepAutoSaves = 10
	DefaultLogLevel      = "warn"
	DefaultLogEncoding   = "console"
)

// autoSaveDelayEnv names the variable overriding AutoSaveDelay.
const autoSaveDelayEnv = "STORYFORGE_AUTOSAVE_DELAY"

// Config is the storyforge configuration. Values come from
// ~/.storyforge/config.json and are overridden by STORYFORGE_* variables.
// An explicit autosave_delay of 0s is kept; only an absent one takes the default.
type Config struct {
	DBPath        string   `json:"db_path,omitempty" env:"STORYFORGE_DB_PATH"`
	AutoSaveDelay Duration `json:"autosave_delay" env:"STORYFORGE_AUTOSAVE_DELAY" validate:"gte=0,lte=600000000000"` // at most 10m
	KeepAutoSaves int      `json:"keep_autosaves,omitempty" env:"STORYFORGE_KEEP_AUTOSAVES" validate:"gte=1"`
	LogLevel      string   `json:"log_level,omitempty" env:"STORYFORGE_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	LogEncoding   string   `json:"log_encoding,omitempty" env:"STORYFORGE_LOG_ENCODING" validate:"omitempty,oneof=console json"`
	RestoreMode   string   `json:"restore_mode,omitempty" env:"STORYFORGE_RESTORE_MODE" validate:"omitempty,oneof=best-effort atomic"`
}

// Duration is a time.Duration written as text ("2s") in JSON and env vars.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(false)
	return cfg
}

// LoadConfig reads .storyforge/config.json under dir, applies environment
// overrides, fills defaults, and validates the result. A missing file is not
// an error.
func LoadConfig(dir string) (*Config, error) {
	var cfg Config
	delaySet := false

	data, err := os.ReadFile(Path(dir))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if v := gjson.GetBytes(data, "autosave_delay"); v.Exists() && v.Type != gjson.Null {
			delaySet = true
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, ok := os.LookupEnv(autoSaveDelayEnv); ok {
		delaySet = true
	}

	cfg.applyDefaults(delaySet)

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dir, ".storyforge", "storyforge.db")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json under dir/.storyforge.
func SaveConfig(dir string, cfg *Config) error {
	sfDir := filepath.Join(dir, ".storyforge")
	if err := os.MkdirAll(sfDir, 0755); err != nil {
		return fmt.Errorf("failed to create .storyforge dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// HomeDir returns the directory holding .storyforge.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}

// AtomicRestore reports whether backup restores run in a single transaction.
func (c *Config) AtomicRestore() bool {
	return c.RestoreMode == RestoreAtomic
}

func (c *Config) applyDefaults(delaySet bool) {
	if !delaySet && c.AutoSaveDelay == 0 {
		c.AutoSaveDelay = Duration(DefaultAutoSaveDelay)
	}
	if c.KeepAutoSaves == 0 {
		c.KeepAutoSaves = DefaultKeepAutoSaves
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogEncoding == "" {
		c.LogEncoding = DefaultLogEncoding
	}
	if c.RestoreMode == "" {
		c.RestoreMode = RestoreBestEffort
	}
}

// Path returns the location of config.json under dir.
func Path(dir string) string {
	return filepath.Join(dir, ".storyforge", "config.json")
}
