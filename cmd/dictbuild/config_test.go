package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, "sources.db", cfg.SourcesDB)
	assert.Equal(t, []string{"ecdict-csv", "ecdict-zip"}, cfg.Sources)
	assert.Equal(t, ":8420", cfg.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Zero(t, cfg.MaxEntries)
	assert.Empty(t, cfg.Output)
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.Error(t, err)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("DICTBUILD_MAX_ENTRIES", "5000")
	t.Setenv("DICTBUILD_SOURCES", "ecdict-zip")
	t.Setenv("DICTBUILD_LOG_LEVEL", "debug")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.MaxEntries)
	assert.Equal(t, []string{"ecdict-zip"}, cfg.Sources)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictbuild.yaml")
	content := `output: out/en_zh.dict
max_entries: 20000
keep_csv: true
manifest_path: out/manifest.yaml
sources:
  - ecdict-zip
log:
  level: warn
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "out/en_zh.dict", cfg.Output)
	assert.Equal(t, 20000, cfg.MaxEntries)
	assert.True(t, cfg.KeepCSV)
	assert.Equal(t, "out/manifest.yaml", cfg.ManifestPath)
	assert.Equal(t, []string{"ecdict-zip"}, cfg.Sources)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "utf-8", cfg.Encoding, "unset fields keep their defaults")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_entries: 100\n"), 0o644))
	t.Setenv("DICTBUILD_MAX_ENTRIES", "7")

	cfg, err := loadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxEntries)
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_entries: [oops\n"), 0o644))

	_, err := loadConfig(path, false)
	assert.Error(t, err)
}
