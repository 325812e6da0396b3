// Package config provides configuration loading and structs for the
// invoice analysis server.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. It is read once at
// startup and never mutated afterward.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	Gemini GeminiConfig `yaml:"gemini"`
	Upload UploadConfig `yaml:"upload"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GeminiConfig holds the external model settings. The API key may be set
// in the file but the GEMINI_API_KEY environment variable wins.
type GeminiConfig struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// UploadConfig bounds the multipart request body.
type UploadConfig struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

// Load reads and parses the config file at path, applies defaults, and
// resolves the API key from the environment. A .env file in the working
// directory is honored when present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	finish(&cfg)
	return &cfg, nil
}

// LoadOrDefault behaves like Load, but returns a default config when no
// file exists at path, so the server can run from environment alone.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := &Config{}
		finish(cfg)
		return cfg, nil
	}
	return Load(path)
}

func finish(cfg *Config) {
	ApplyDefaults(cfg)
	_ = godotenv.Load()
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
}
