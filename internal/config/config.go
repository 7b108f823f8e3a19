// Package config handles configuration loading for smartnav.
// It supports a YAML config file, environment variables, and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxDebugLevel is the most verbose debug level (phase timings).
const MaxDebugLevel = 2

// Config holds the configuration for smartnav.
type Config struct {
	DBPath     string   `yaml:"db_path"`     // Database file, default: ~/.smartnav.db
	StateDir   string   `yaml:"state_dir"`   // State directory, default: ~/.local/state/smartnav
	DebugLevel int      `yaml:"debug_level"` // Debug level 0-2, from SMARTNAV_DEBUG
	Exclude    []string `yaml:"exclude"`     // Glob patterns never recorded by "add"
}

// DefaultPath returns the config file location.
// SMARTNAV_CONFIG overrides ~/.config/smartnav/config.yaml.
func DefaultPath() string {
	if val := os.Getenv("SMARTNAV_CONFIG"); val != "" {
		return val
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "smartnav", "config.yaml")
}

// Load reads configuration from the given YAML file path,
// applies defaults for missing values, and overrides with environment variables.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}

	homeDir, _ := os.UserHomeDir()

	applyDefaults(cfg, homeDir)

	// Env vars take highest precedence
	applyEnvOverrides(cfg)

	cfg.DBPath = expandHome(cfg.DBPath, homeDir)
	cfg.StateDir = expandHome(cfg.StateDir, homeDir)
	for i, p := range cfg.Exclude {
		cfg.Exclude[i] = expandHome(p, homeDir)
	}

	if cfg.DebugLevel < 0 {
		cfg.DebugLevel = 0
	}
	if cfg.DebugLevel > MaxDebugLevel {
		cfg.DebugLevel = MaxDebugLevel
	}

	return cfg, nil
}

func applyDefaults(cfg *Config, homeDir string) {
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(homeDir, ".smartnav.db")
	}
	if cfg.StateDir == "" {
		cfg.StateDir = filepath.Join(homeDir, ".local", "state", "smartnav")
	}
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SMARTNAV_DB"); val != "" {
		cfg.DBPath = val
	}

	if val := os.Getenv("SMARTNAV_STATE"); val != "" {
		cfg.StateDir = val
	}

	if val := os.Getenv("SMARTNAV_DEBUG"); val != "" {
		if level, err := strconv.Atoi(val); err == nil {
			cfg.DebugLevel = level
		}
	}

	// SMARTNAV_EXCLUDE replaces the file's list; entries are separated like $PATH
	if val := os.Getenv("SMARTNAV_EXCLUDE"); val != "" {
		var patterns []string
		for _, p := range filepath.SplitList(val) {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.Exclude = patterns
	}
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
