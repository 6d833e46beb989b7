// Package config holds the session configuration for the recommendation
// pipeline. The config is loaded exactly once at startup and passed to every
// component explicitly; nothing in the repository reads it through package
// globals.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that must be present before a session starts.
var requiredAPIKeys = []string{
	"ANTHROPIC_API_KEY",
	"OPENAI_API_KEY",
	"GOOGLE_API_KEY",
	"YOUTUBE_API_KEY",
}

// Config captures every tunable the pipeline recognizes. Field names mirror
// the keys of the YAML file so operators can diff a config against this
// struct directly.
type Config struct {
	// Songs is the number of recommendations (K) requested from each provider.
	Songs int `yaml:"no_of_songs"`
	// MaxChars bounds a single interactive answer.
	MaxChars int `yaml:"max_chars"`
	// MaxAttempts bounds validation retries per attribute.
	MaxAttempts int `yaml:"max_attempts"`
	// Temperature is forwarded to every recommendation model call.
	Temperature float64 `yaml:"temperature"`
	// SongAttributes is the ordered list of attributes collected from the user.
	SongAttributes []string `yaml:"song_attributes"`

	AnthropicModel string `yaml:"anthropic_model"`
	OpenAIModel    string `yaml:"openai_model"`
	GoogleModel    string `yaml:"google_model"`
	// ValidatorModel is the small, cheap model used for input validation.
	ValidatorModel string `yaml:"validator_model"`

	// RequestTimeoutSeconds bounds each provider round-trip.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	// SearchTimeoutSeconds bounds each playlist resolution call.
	SearchTimeoutSeconds int `yaml:"search_timeout_seconds"`

	// PlaylistTopN is how many consensus entries are published.
	PlaylistTopN int `yaml:"playlist_top_n"`
	// OutputDir is the root for per-session artifacts.
	OutputDir string `yaml:"output_dir"`
	// CatalogPath locates the SQLite session catalog.
	CatalogPath string `yaml:"catalog_path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Songs:       10,
		MaxChars:    200,
		MaxAttempts: 3,
		Temperature: 0.8,
		SongAttributes: []string{
			"genre", "language", "year", "favorite_artists", "hints",
		},
		AnthropicModel:        "claude-haiku-4-5",
		OpenAIModel:           "gpt-4o",
		GoogleModel:           "gemini-pro-latest",
		ValidatorModel:        "gpt-4o-mini",
		RequestTimeoutSeconds: 120,
		SearchTimeoutSeconds:  15,
		PlaylistTopN:          20,
		OutputDir:             "model_outputs",
		CatalogPath:           "sessions.db",
	}
}

// Load reads the YAML config at path, filling gaps with defaults. A missing
// file is not an error: the defaults describe a fully working setup.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configs that would make the pipeline misbehave silently.
func (c *Config) Validate() error {
	if c.Songs <= 0 {
		return errors.New("no_of_songs must be positive")
	}
	if c.MaxChars <= 0 {
		return errors.New("max_chars must be positive")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("max_attempts must be positive")
	}
	if len(c.SongAttributes) == 0 {
		return errors.New("song_attributes must not be empty")
	}
	if c.PlaylistTopN <= 0 {
		return errors.New("playlist_top_n must be positive")
	}
	return nil
}

// RequestTimeout returns the provider call timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SearchTimeout returns the playlist resolution timeout as a duration.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSeconds) * time.Second
}

// ValidateAPIKeys confirms every provider credential is present in the
// environment. Called once before any network client is constructed.
func ValidateAPIKeys() error {
	for _, key := range requiredAPIKeys {
		if os.Getenv(key) == "" {
			return fmt.Errorf("%s not found in environment", key)
		}
	}
	return nil
}
