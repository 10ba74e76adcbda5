package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables holding upstream credentials. Credentials are never
// read from the config file and carry no in-code fallback values.
const (
	EnvGenerationKeys = "GEMINI_API_KEYS"
	EnvVideoKey       = "YOUTUBE_API_KEY"
)

// Loader reads configuration from an optional yaml file plus the environment.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader for the given config file path. An empty path
// means defaults-plus-environment only.
func NewLoader(path string) *Loader {
	return &Loader{
		path:      path,
		useDotEnv: true,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load merges defaults, the yaml file and environment credentials.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()
	path := l.path

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvCredentials(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   path,
	}, nil
}

func applyEnvCredentials(cfg *Config) {
	if raw := os.Getenv(EnvGenerationKeys); raw != "" {
		keys := make([]string, 0, 4)
		for _, key := range strings.Split(raw, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
		cfg.Vision.APIKeys = keys
		cfg.LLM.APIKeys = keys
	}

	if key := os.Getenv(EnvVideoKey); key != "" {
		cfg.Video.APIKey = key
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Vision.ModelName == "" {
		return fmt.Errorf("vision model_name is required")
	}
	if cfg.LLM.ModelName == "" {
		return fmt.Errorf("llm model_name is required")
	}
	return nil
}
