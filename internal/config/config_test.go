package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Setenv(EnvAPIEndpoint, "")
	t.Setenv(EnvBootstrapEndpoint, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "config file should be created on first launch")

	assert.Equal(t, DefaultEndpoint, cfg.API.Endpoint)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultJournalName), cfg.JournalPath)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultLogName), cfg.Log.File)
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, " ", cfg.Keys.Toggle)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
}

func TestLoadOrCreateReadsExistingFile(t *testing.T) {
	t.Setenv(EnvAPIEndpoint, "")
	t.Setenv(EnvBootstrapEndpoint, "")
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
journal_path = "/var/tmp/todo-journal.db"

[api]
endpoint = "https://api.example.test"
bootstrap_endpoint = "http://internal.example.test"
timeout_seconds = 3

[log]
level = "debug"

[keys]
add = "n"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.API.Endpoint)
	assert.Equal(t, "http://internal.example.test", cfg.BootstrapEndpoint())
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/tmp/todo-journal.db", cfg.JournalPath)
	assert.Equal(t, filepath.Join(dir, DefaultLogName), cfg.Log.File)
	assert.Equal(t, "n", cfg.Keys.Add)
	assert.Equal(t, "q", cfg.Keys.Quit, "unset keys keep their defaults")
}

func TestLoadOrCreateRejectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("[api\nendpoint ="), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestEnvironmentOverridesEndpoints(t *testing.T) {
	t.Setenv(EnvAPIEndpoint, "http://client.test")
	t.Setenv(EnvBootstrapEndpoint, "http://server.test")

	cfg, err := LoadOrCreate(filepath.Join(t.TempDir(), DefaultConfigFileName))
	require.NoError(t, err)

	assert.Equal(t, "http://client.test", cfg.API.Endpoint)
	assert.Equal(t, "http://server.test", cfg.BootstrapEndpoint())
}

func TestBootstrapEndpointFallsBackToAPIEndpoint(t *testing.T) {
	cfg := Config{API: API{Endpoint: "http://only.test"}}
	assert.Equal(t, "http://only.test", cfg.BootstrapEndpoint())
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", AppName, DefaultConfigFileName), ResolveConfigPath())
}
