package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	os.Unsetenv(BaseURLEnv)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.API.BaseURL)
	assert.Equal(t, 0, cfg.API.TimeoutSecs)
	assert.Equal(t, []string{".pdf"}, cfg.Picker.AllowedTypes)
	assert.Equal(t, "ragqa.log", cfg.Log.File)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileValuesAndDefaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	os.Unsetenv(BaseURLEnv)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
api:
  base_url: http://rag.internal:8000
  timeout_secs: 45
picker:
  allowed_types: ["PDF", " .txt "]
log:
  file: ""
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://rag.internal:8000", cfg.API.BaseURL)
	assert.Equal(t, 45, cfg.API.TimeoutSecs)
	assert.Equal(t, []string{".pdf", ".txt"}, cfg.Picker.AllowedTypes)
	assert.Equal(t, ".", cfg.Picker.StartDir)
	assert.Equal(t, "", cfg.Log.File)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://from-file\n"), 0o644))
	t.Setenv(BaseURLEnv, " http://from-env:9000 ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:9000", cfg.API.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	os.Unsetenv(BaseURLEnv)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.API.BaseURL = "http://saved"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
