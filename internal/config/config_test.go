// internal/config/config_test.go
package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_TYPE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file", cfg.StorageType)
}

func TestLoadOverrides(t *testing.T) {
	setTestDirs(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("DEBUG_MODE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StorageType)
	assert.False(t, cfg.DebugMode)
}

func TestLoadRejectsUnknownStorageType(t *testing.T) {
	setTestDirs(t)
	t.Setenv("STORAGE_TYPE", "dynamo")

	_, err := Load()
	assert.Error(t, err)
}
