package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 600, cfg.RotateEverySeconds)
	assert.Equal(t, 10*time.Minute, cfg.RotateEvery())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dqp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"dataDir: /tmp/dqp-data\nrotateEverySeconds: 60\nsyncEveryWrite: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dqp-data", cfg.DataDir)
	assert.Equal(t, time.Minute, cfg.RotateEvery())
	assert.True(t, cfg.SyncEveryWrite)
	// untouched keys keep their defaults
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dqp.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"dataDir": "/tmp/dqp-data", "logLevel": "debug"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dqp-data", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv("DQP_DATA_DIR", "/env/data")
	t.Setenv("DQP_ROTATE_EVERY_SECONDS", "30")
	t.Setenv("DQP_SYNC_EVERY_WRITE", "true")
	t.Setenv("DQP_LOG_LEVEL", "warn")

	cfg := Default()
	FromEnv(&cfg)
	assert.Equal(t, "/env/data", cfg.DataDir)
	assert.Equal(t, 30, cfg.RotateEverySeconds)
	assert.True(t, cfg.SyncEveryWrite)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("DQP_ROTATE_EVERY_SECONDS", "soon")
	cfg := Default()
	FromEnv(&cfg)
	assert.Equal(t, 600, cfg.RotateEverySeconds)
}
