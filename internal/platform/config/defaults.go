package config

import "time"

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			Enabled:   true,
			StaticDir: "./web",
		},
		Vision: ModelConfig{
			ModelName:   "gemini-1.5-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
			Temperature: 0.2,
			MaxTokens:   256,
			TopP:        1.0,
			Timeout:     Duration(30 * time.Second),
		},
		LLM: ModelConfig{
			ModelName:   "gemini-1.5-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
			Temperature: 0.7,
			MaxTokens:   512,
			TopP:        1.0,
			Timeout:     Duration(30 * time.Second),
		},
		Video: VideoConfig{
			Timeout: Duration(15 * time.Second),
		},
		TTS: TTSConfig{
			Voice: "en-NG-EzinneNeural",
		},
		Security: SecurityConfig{
			MaxFileSize:    5 * 1024 * 1024,
			MaxPixels:      50_000_000,
			MaxWidth:       10000,
			MaxHeight:      10000,
			AllowedFormats: []string{"jpeg", "jpg", "png"},
		},
		Pool: PoolConfig{
			FailureCooldown: Duration(30 * time.Second),
		},
	}
}
