package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "model", cfg.Storage.File.Dir)
	assert.Equal(t, 2*time.Minute, cfg.FetchTimeout())
	assert.Equal(t, 24*time.Hour, cfg.ScheduleInterval())
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: mysql
  db:
    host: db.internal
    port: 3307
    user: warehouse
    password: secret
fetch:
  timeout: 30s
  maxAttempts: 5
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, BackendMySQL, cfg.Storage.Backend)
	assert.Equal(t, "db.internal", cfg.Storage.DB.Host)
	assert.Equal(t, 3307, cfg.Storage.DB.Port)
	assert.Equal(t, "warehouse", cfg.Storage.DB.User)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 5, cfg.Fetch.MaxAttempts)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: file
  db:
    host: from-file
`)
	t.Setenv("WAREHOUSE_DRIVER", "mysql")
	t.Setenv("WAREHOUSE_SERVER", "from-env")
	t.Setenv("WAREHOUSE_USER", "envuser")
	t.Setenv("WAREHOUSE_PASSWORD", "envpass")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, BackendMySQL, cfg.Storage.Backend)
	assert.Equal(t, "from-env", cfg.Storage.DB.Host)
	assert.Equal(t, "envuser", cfg.Storage.DB.User)
	assert.Equal(t, "envpass", cfg.Storage.DB.Password)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: oracle
`)

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoad_RejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoad_DatasetURLOverrides(t *testing.T) {
	path := writeConfig(t, `
datasets:
  cases-tests: https://mirror.example.org/cases.json
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org/cases.json", cfg.Datasets["cases-tests"])
}
