package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdkgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
spec: https://example.com/openapi.yaml
cacheDir: /tmp/cache
includeTags:
  - "^users$"
excludeTags:
  - internal
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/openapi.yaml", cfg.Spec)
	assert.Equal(t, "/tmp/cache", cfg.CacheDir)
	assert.Equal(t, []string{"^users$"}, cfg.IncludeTags)
	assert.Equal(t, []string{"internal"}, cfg.ExcludeTags)
}

func TestLoad_AbsolutizesPaths(t *testing.T) {
	path := writeConfig(t, "spec: ./openapi.yaml\nout: ./ir.json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Spec))
	assert.True(t, filepath.IsAbs(cfg.Out))
}

func TestLoad_URLSpecKeptAsIs(t *testing.T) {
	path := writeConfig(t, "spec: http://localhost:8000/openapi.json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/openapi.json", cfg.Spec)
}

func TestLoad_MissingSpec(t *testing.T) {
	path := writeConfig(t, "out: ./ir.json\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec is required")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
