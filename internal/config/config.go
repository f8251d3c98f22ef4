// Package config loads syntaxcat's YAML configuration.
//
// Config file locations (priority order):
//  1. $SYNTAXCAT_CONFIG
//  2. ./syntaxcat.yaml
//  3. $XDG_CONFIG_HOME/syntaxcat/config.yaml
//  4. ~/.config/syntaxcat/config.yaml
//
// A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "SYNTAXCAT_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory.
	ConfigFileName = "syntaxcat.yaml"
	// ConfigDirName is the config directory name under XDG.
	ConfigDirName = "syntaxcat"

	DefaultDBPath  = "./syntaxcat.db"
	DefaultDriver  = "sqlite3"
	DefaultFixture = "python"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Seed     SeedConfig     `yaml:"seed"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
	// Driver is "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `yaml:"driver"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

type SeedConfig struct {
	// Fixture names the bundled fixture script, e.g. "python".
	Fixture string `yaml:"fixture"`
	// ScriptsDir, when set, loads fixtures from disk instead of the bundle.
	ScriptsDir string `yaml:"scripts_dir"`
}

// Load finds and loads the config file, or returns defaults if none found.
// The second return value is the path that was read, if any.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	_ = cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() error {
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	switch c.Database.Driver {
	case "":
		c.Database.Driver = DefaultDriver
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Seed.Fixture == "" {
		c.Seed.Fixture = DefaultFixture
	}
	return nil
}

// FindConfigPath searches for a config file in priority order and returns
// "" if none exists.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
