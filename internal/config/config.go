package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Compositor CompositorConfig `json:"compositor"`
	Generation GenerationConfig `json:"generation"`
	Caption    CaptionConfig    `json:"caption"`
	Output     OutputConfig     `json:"output"`
}

// CompositorConfig holds configuration for square compositing
type CompositorConfig struct {
	CanvasSize int     `json:"canvas_size"`
	Padding    float64 `json:"padding"`
}

// GenerationConfig holds configuration for the image generation backend
type GenerationConfig struct {
	ServerURL   string  `json:"server_url"`
	Steps       int     `json:"steps"`
	CFGScale    float64 `json:"cfg_scale"`
	SamplerName string  `json:"sampler_name"`
}

// CaptionConfig holds configuration for caption suggestion
type CaptionConfig struct {
	Enabled   bool   `json:"enabled"`
	OllamaURL string `json:"ollama_url"`
	Model     string `json:"model"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Dir string `json:"dir"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Compositor: CompositorConfig{
			CanvasSize: 1080,
			Padding:    0.9,
		},
		Generation: GenerationConfig{
			ServerURL:   "http://localhost:7860",
			Steps:       30,
			CFGScale:    7.0,
			SamplerName: "DPM++ 2M",
		},
		Caption: CaptionConfig{
			Enabled:   false,
			OllamaURL: "http://localhost:11434",
			Model:     "llava",
		},
		Output: OutputConfig{
			Dir: "./out",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Compositor.CanvasSize < 1 {
		return fmt.Errorf("compositor.canvas_size must be positive")
	}

	if c.Compositor.Padding <= 0 || c.Compositor.Padding > 1 {
		return fmt.Errorf("compositor.padding must be in (0,1]")
	}

	if c.Generation.Steps < 1 {
		return fmt.Errorf("generation.steps must be positive")
	}

	if c.Generation.CFGScale <= 0 {
		return fmt.Errorf("generation.cfg_scale must be positive")
	}

	if c.Caption.Enabled && c.Caption.Model == "" {
		return fmt.Errorf("caption.model is required when caption is enabled")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "instaframe", "config.json")
}
