package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	assert.Equal(t, DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, DefaultDriver, cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, DefaultFixture, cfg.Seed.Fixture)
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
database:
  path: /var/lib/syntaxcat/catalog.db
  driver: sqlite
logging:
  level: debug
`)
	cfg, got, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "/var/lib/syntaxcat/catalog.db", cfg.Database.Path)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "python", cfg.Seed.Fixture)
}

func TestLoadFromPath_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, _, err = LoadFromPath(writeConfig(t, "database: [not, a, map]"))
	assert.ErrorContains(t, err, "parse config")

	_, _, err = LoadFromPath(writeConfig(t, "database:\n  driver: postgres\n"))
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestFindConfigPath_EnvWins(t *testing.T) {
	path := writeConfig(t, "seed:\n  fixture: python\n")
	t.Setenv(EnvConfigPath, path)
	assert.Equal(t, path, FindConfigPath())

	cfg, got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "python", cfg.Seed.Fixture)
}

func TestFindConfigPath_XDG(t *testing.T) {
	xdg := t.TempDir()
	dir := filepath.Join(xdg, ConfigDirName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())
	assert.Equal(t, path, FindConfigPath())
}
