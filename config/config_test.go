package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxIterations, cfg.Run.MaxIterations)
	assert.Equal(t, DefaultEventBufferSize, cfg.Run.EventBufferSize)
	assert.Equal(t, 0, cfg.Run.MaxParallelTools)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
run:
  max_iterations: 3
  max_parallel_tools: 4
log:
  level: debug
  format: json
providers:
  openai:
    model: gpt-4o
    temperature: 0.2
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Run.MaxIterations)
	assert.Equal(t, 4, cfg.Run.MaxParallelTools)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultEventBufferSize, cfg.Run.EventBufferSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "gpt-4o", cfg.Providers.OpenAI.Model)
	assert.InDelta(t, 0.2, cfg.Providers.OpenAI.Temperature, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  max_iterations: 3\n"), 0o600))

	t.Setenv("INFERLOOP_RUN__MAX_ITERATIONS", "7")
	t.Setenv("INFERLOOP_LOG__LEVEL", "error")
	t.Setenv("INFERLOOP_PROVIDERS__ANTHROPIC__API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment wins over the file, which wins over defaults.
	assert.Equal(t, 7, cfg.Run.MaxIterations)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "sk-test", cfg.Providers.Anthropic.APIKey)
}

func TestLogConfigLogger(t *testing.T) {
	for _, c := range []LogConfig{
		{Level: "debug", Format: "text"},
		{Level: "info", Format: "json"},
		{Level: "unknown", Format: ""},
	} {
		assert.NotNil(t, c.Logger())
	}
}
