package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load consults
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"SMARTNAV_CONFIG", "SMARTNAV_DB", "SMARTNAV_STATE", "SMARTNAV_DEBUG", "SMARTNAV_EXCLUDE"} {
		t.Setenv(v, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_Load_MissingFile_ReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(homeDir, ".smartnav.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(homeDir, ".local", "state", "smartnav"), cfg.StateDir)
	assert.Equal(t, 0, cfg.DebugLevel)
	assert.Empty(t, cfg.Exclude)
}

func Test_Load_ValidFile_ReturnsValues(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
db_path: /custom/nav.db
state_dir: /custom/state
debug_level: 1
exclude:
  - /tmp/**
  - "**/node_modules"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/custom/nav.db", cfg.DBPath)
	assert.Equal(t, "/custom/state", cfg.StateDir)
	assert.Equal(t, 1, cfg.DebugLevel)
	assert.Equal(t, []string{"/tmp/**", "**/node_modules"}, cfg.Exclude)
}

func Test_Load_InvalidYAML_ReturnsError(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "db_path: [unterminated\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func Test_Load_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "db_path: /from/file.db\nstate_dir: /from/file\ndebug_level: 1\nexclude: [/a]\n")

	t.Setenv("SMARTNAV_DB", "/from/env.db")
	t.Setenv("SMARTNAV_STATE", "/from/env")
	t.Setenv("SMARTNAV_DEBUG", "2")
	t.Setenv("SMARTNAV_EXCLUDE", "/tmp/**"+string(os.PathListSeparator)+" /var/** ")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.Equal(t, "/from/env", cfg.StateDir)
	assert.Equal(t, 2, cfg.DebugLevel)
	assert.Equal(t, []string{"/tmp/**", "/var/**"}, cfg.Exclude)
}

func Test_Load_InvalidDebugEnv_Ignored(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMARTNAV_DEBUG", "loud")

	cfg, err := Load(writeConfig(t, "debug_level: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.DebugLevel)
}

func Test_Load_ClampsDebugLevel(t *testing.T) {
	clearEnv(t)

	t.Setenv("SMARTNAV_DEBUG", "9")
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, MaxDebugLevel, cfg.DebugLevel)

	t.Setenv("SMARTNAV_DEBUG", "-3")
	cfg, err = Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.DebugLevel)
}

func Test_Load_ExpandsHome(t *testing.T) {
	clearEnv(t)
	homeDir, _ := os.UserHomeDir()

	cfg, err := Load(writeConfig(t, "db_path: ~/nav/db.sqlite\nexclude: [\"~/scratch/**\"]\n"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(homeDir, "nav", "db.sqlite"), cfg.DBPath)
	assert.Equal(t, []string{filepath.Join(homeDir, "scratch/**")}, cfg.Exclude)
}

func Test_DefaultPath(t *testing.T) {
	clearEnv(t)
	homeDir, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(homeDir, ".config", "smartnav", "config.yaml"), DefaultPath())

	t.Setenv("SMARTNAV_CONFIG", "/etc/smartnav.yaml")
	assert.Equal(t, "/etc/smartnav.yaml", DefaultPath())
}
