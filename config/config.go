// Package config provides configuration loading and management for the
// ideation service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Server    ServerConfig    `yaml:"server"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
}

// ModelConfig configures the LLM model settings
type ModelConfig struct {
	// Provider selects the registered provider ("openrouter" or "ollama")
	Provider string `yaml:"provider"`
	// Name is the model identifier (e.g., "google/gemini-2.0-flash-001")
	Name string `yaml:"name"`
	// Endpoint overrides the provider's default API endpoint
	Endpoint string `yaml:"endpoint"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	// Addr is the listen address (default: ":8080")
	Addr string `yaml:"addr"`
	// ShutdownGrace is how long in-flight requests get on shutdown
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

// KnowledgeConfig configures the market knowledge overlay
type KnowledgeConfig struct {
	// Path is an optional YAML overlay file for district data and SEO
	// benchmarks (empty = built-in data only)
	Path string `yaml:"path"`
	// Watch reloads the overlay when the file changes
	Watch bool `yaml:"watch"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider: "openrouter",
			Name:     "google/gemini-2.0-flash-001",
			Endpoint: "",
			Timeout:  3 * time.Minute,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			ShutdownGrace: 10 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			Path:  "",
			Watch: false,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Model.Provider == "" {
		return fmt.Errorf("model.provider is required")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Model.Provider != "" {
		c.Model.Provider = other.Model.Provider
	}
	if other.Model.Name != "" {
		c.Model.Name = other.Model.Name
	}
	if other.Model.Endpoint != "" {
		c.Model.Endpoint = other.Model.Endpoint
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ShutdownGrace != 0 {
		c.Server.ShutdownGrace = other.Server.ShutdownGrace
	}

	if other.Knowledge.Path != "" {
		c.Knowledge.Path = other.Knowledge.Path
	}
	if other.Knowledge.Watch {
		c.Knowledge.Watch = true
	}
}
