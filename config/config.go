// Package config loads engine and provider configuration from defaults, an
// optional YAML file and INFERLOOP_ prefixed environment variables, in that
// order of precedence.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/inferloop/inferloop/logging"
)

// Default configuration values.
const (
	DefaultMaxIterations   = 10
	DefaultEventBufferSize = 64
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Config is the root configuration document.
type Config struct {
	Run       RunConfig       `koanf:"run"`
	Log       LogConfig       `koanf:"log"`
	Providers ProvidersConfig `koanf:"providers"`
}

// RunConfig tunes the orchestration loop.
type RunConfig struct {
	MaxIterations    int `koanf:"max_iterations"`
	EventBufferSize  int `koanf:"event_buffer_size"`
	MaxParallelTools int `koanf:"max_parallel_tools"`
}

// LogConfig tunes log output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text or json
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	Anthropic ProviderConfig `koanf:"anthropic"`
	OpenAI    ProviderConfig `koanf:"openai"`
}

// ProviderConfig holds settings for one model provider.
type ProviderConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int64   `koanf:"max_tokens"`
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and INFERLOOP_ environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"run.max_iterations":     DefaultMaxIterations,
		"run.event_buffer_size":  DefaultEventBufferSize,
		"run.max_parallel_tools": 0,
		"log.level":              DefaultLogLevel,
		"log.format":             DefaultLogFormat,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// INFERLOOP_RUN__MAX_ITERATIONS maps to run.max_iterations: double
	// underscore separates sections, single underscore stays in the key.
	k.Load(env.Provider("INFERLOOP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "INFERLOOP_")), "__", ".", -1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Logger constructs a logger matching the log configuration.
func (c LogConfig) Logger() logging.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if c.Format == "json" {
		return logging.NewJSONLogger(os.Stderr, level)
	}
	return logging.NewTintLogger(os.Stderr, level)
}
