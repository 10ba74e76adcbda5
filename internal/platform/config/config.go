package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts yaml duration strings like "30s" alongside raw
// nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %v", value.Value)
	}
	*d = Duration(n)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Web      WebConfig      `yaml:"web"`
	Vision   ModelConfig    `yaml:"vision"`
	LLM      ModelConfig    `yaml:"llm"`
	Video    VideoConfig    `yaml:"video"`
	TTS      TTSConfig      `yaml:"tts"`
	Security SecurityConfig `yaml:"security"`
	Pool     PoolConfig     `yaml:"pool"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

// ModelConfig configures a generation model endpoint. API keys are never
// read from the file; the loader fills them from the environment.
type ModelConfig struct {
	ModelName   string        `yaml:"model_name"`
	BaseURL     string        `yaml:"url"`
	APIKeys     []string      `yaml:"-"`
	Temperature float64  `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
	TopP        float64  `yaml:"top_p"`
	Timeout     Duration `yaml:"timeout"`
}

type VideoConfig struct {
	APIKey  string   `yaml:"-"`
	BaseURL string   `yaml:"url"`
	Timeout Duration `yaml:"timeout"`
}

type TTSConfig struct {
	Voice string `yaml:"voice"`
}

type SecurityConfig struct {
	MaxFileSize    int64    `yaml:"max_file_size"`
	MaxPixels      int64    `yaml:"max_pixels"`
	MaxWidth       int      `yaml:"max_width"`
	MaxHeight      int      `yaml:"max_height"`
	AllowedFormats []string `yaml:"allowed_formats"`
}

// PoolConfig tunes credential rotation.
type PoolConfig struct {
	FailureCooldown Duration `yaml:"failure_cooldown"`
}
