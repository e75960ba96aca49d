// Package config loads caseroute configuration from the user config file
// and environment variables. Environment variables always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sable-systems/caseroute/pkg/provider"
)

// Config holds the application configuration.
type Config struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
	DatabaseDSN     string
	ServerAddr      string
	Retry           RetryConfig
	Pricing         PricingConfig
	ConfigDir       string
}

// FileConfig represents the structure of ~/.caseroute/config.yaml
type FileConfig struct {
	APIKeys  APIKeysConfig  `yaml:"api_keys"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Retry    RetryConfig    `yaml:"retry"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	OpenAI    string `yaml:"openai"`
	Anthropic string `yaml:"anthropic"`
	Google    string `yaml:"google"`
}

// DatabaseConfig holds the usage-metrics database settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RetryConfig defines retry and backoff behavior for transient provider
// failures. MaxRetries of zero means a single attempt (the default);
// retrying is a deliberate opt-in.
type RetryConfig struct {
	MaxRetries    int `yaml:"max_retries,omitempty"`
	BaseBackoffMs int `yaml:"base_backoff_ms,omitempty"`
	MaxBackoffMs  int `yaml:"max_backoff_ms,omitempty"`
}

// PricingConfig maps provider -> model -> pricing.
type PricingConfig map[string]map[string]ModelPricing

// ModelPricing defines per-1k token pricing.
type ModelPricing struct {
	PromptPer1K     float64 `yaml:"prompt_per_1k,omitempty"`
	CompletionPer1K float64 `yaml:"completion_per_1k,omitempty"`
}

const defaultServerAddr = ":8085"

// Load reads configuration from the config file and environment variables.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DatabaseDSN:     getEnvOrDefault("CASEROUTE_DB_DSN", fileConfig.Database.DSN),
		ServerAddr:      getEnvOrDefault("CASEROUTE_ADDR", fileConfig.Server.Addr),
		Retry:           fileConfig.Retry,
		Pricing:         fileConfig.Pricing,
		ConfigDir:       configDir,
	}

	if cfg.ServerAddr == "" {
		cfg.ServerAddr = defaultServerAddr
	}
	applyRetryDefaults(&cfg.Retry)

	return cfg, nil
}

// APIKey returns the configured key for a provider, or empty when unset.
func (c *Config) APIKey(kind provider.Kind) string {
	switch kind {
	case provider.OpenAI:
		return c.OpenAIAPIKey
	case provider.Anthropic:
		return c.AnthropicAPIKey
	case provider.Google:
		return c.GoogleAPIKey
	default:
		return ""
	}
}

// HasProvider returns true if the API key for the given provider is configured.
func (c *Config) HasProvider(kind provider.Kind) bool {
	return c.APIKey(kind) != ""
}

func applyRetryDefaults(r *RetryConfig) {
	if r.MaxRetries > 0 {
		if r.BaseBackoffMs <= 0 {
			r.BaseBackoffMs = 200
		}
		if r.MaxBackoffMs <= 0 {
			r.MaxBackoffMs = 2000
		}
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".caseroute")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
