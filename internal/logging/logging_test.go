package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragqa/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragqa.log")
	log, closeFn, err := New(config.LogConfig{File: path, Level: "info"})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("upload started", "filename", "a.pdf")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"upload started"`)
	assert.Contains(t, string(data), `"filename":"a.pdf"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_EmptyFileDiscards(t *testing.T) {
	log, closeFn, err := New(config.LogConfig{})
	require.NoError(t, err)
	log.Info("nowhere")
	assert.NoError(t, closeFn())
}
