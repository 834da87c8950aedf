// Package config loads lexdraft configuration.
// Source priority (highest to lowest):
// 1. Environment variables (LLM_API_KEY, LEXDRAFT_PROVIDER, PORT, etc.)
// 2. Config file path specified via --config flag
// 3. ~/.config/lexdraft/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ProviderConfig holds configuration for a single provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level: "debug" | "info" | "warn" | "error"
	Level string `yaml:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `yaml:"development"`
}

// Config is the complete configuration structure for lexdraft.
type Config struct {
	// Provider is the active provider name ("openai", "anthropic", "deepseek", ...)
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model.
	Model string `yaml:"model"`

	// Providers holds per-provider configuration.
	Providers map[string]*ProviderConfig `yaml:"providers"`

	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// envOverrides is parsed separately so environment variables always win over
// file values, matching the documented priority.
type envOverrides struct {
	Provider string `env:"LEXDRAFT_PROVIDER"`
	Model    string `env:"LEXDRAFT_MODEL"`
	Host     string `env:"LEXDRAFT_HOST"`
	Port     int    `env:"PORT"`
	LogLevel string `env:"LEXDRAFT_LOG_LEVEL"`

	// Generic overrides apply to the active provider.
	APIKey   string `env:"LLM_API_KEY"`
	BaseURL  string `env:"LLM_BASE_URL"`
	LLMModel string `env:"LLM_MODEL"`

	OpenAIKey    string `env:"OPENAI_API_KEY"`
	AnthropicKey string `env:"ANTHROPIC_API_KEY"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:  "openai",
		Providers: make(map[string]*ProviderConfig),
		Server:    ServerConfig{Host: "0.0.0.0", Port: 5001},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads the config file and merges environment variable overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".config", "lexdraft", "config.yaml")
		}
	}

	// Missing file just means defaults.
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	applyOverrides(cfg, ov)

	return cfg, nil
}

// GetProviderConfig returns the config for the named provider, or an empty
// config if not found.
func (c *Config) GetProviderConfig(name string) *ProviderConfig {
	if pc, ok := c.Providers[name]; ok {
		return pc
	}
	return &ProviderConfig{}
}

func applyOverrides(cfg *Config, ov envOverrides) {
	if ov.Provider != "" {
		cfg.Provider = ov.Provider
	}
	if ov.Model != "" {
		cfg.Model = ov.Model
	}
	if ov.LLMModel != "" {
		cfg.Model = ov.LLMModel
	}
	if ov.Host != "" {
		cfg.Server.Host = ov.Host
	}
	if ov.Port != 0 {
		cfg.Server.Port = ov.Port
	}
	if ov.LogLevel != "" {
		cfg.Log.Level = ov.LogLevel
	}

	if ov.APIKey != "" {
		ensureProvider(cfg, cfg.Provider).APIKey = ov.APIKey
	}
	if ov.BaseURL != "" {
		ensureProvider(cfg, cfg.Provider).BaseURL = ov.BaseURL
	}
	if ov.OpenAIKey != "" {
		pc := ensureProvider(cfg, "openai")
		if pc.APIKey == "" {
			pc.APIKey = ov.OpenAIKey
		}
	}
	if ov.AnthropicKey != "" {
		pc := ensureProvider(cfg, "anthropic")
		if pc.APIKey == "" {
			pc.APIKey = ov.AnthropicKey
		}
	}
}

func ensureProvider(cfg *Config, name string) *ProviderConfig {
	if cfg.Providers[name] == nil {
		cfg.Providers[name] = &ProviderConfig{}
	}
	return cfg.Providers[name]
}
