package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Marvin-Brouwer/slng-sub000/packages/cache"
)

// Config represents the slng configuration. JSON files decode through the
// same YAML decoder.
type Config struct {
	DefaultEnvironment string                    `yaml:"defaultEnvironment,omitempty"`
	Timeout            int                       `yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects    *bool                     `yaml:"followRedirects,omitempty"`
	MaxRedirects       int                       `yaml:"maxRedirects,omitempty"`
	ValidateSSL        *bool                     `yaml:"validateSSL,omitempty"`
	Proxy              string                    `yaml:"proxy,omitempty"`
	Headers            map[string]string         `yaml:"headers,omitempty"` // Default headers for all requests
	CacheTTL           *cache.TTL                `yaml:"cacheTtl,omitempty"`
	SingleFlight       *bool                     `yaml:"singleFlight,omitempty"`
	Bail               *bool                     `yaml:"bail,omitempty"`
	NoColor            *bool                     `yaml:"noColor,omitempty"`
	LogLevel           string                    `yaml:"logLevel,omitempty"`
	LogFormat          string                    `yaml:"logFormat,omitempty"`
	EnvFile            string                    `yaml:"envFile,omitempty"`
	Environments       map[string]map[string]any `yaml:"environments,omitempty"`
	// Secrets and Sensitive name parameters that are masked wherever they
	// are interpolated.
	Secrets   []string `yaml:"secrets,omitempty"`
	Sensitive []string `yaml:"sensitive,omitempty"`
}

func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

func (c *Config) GetSingleFlight() bool {
	return getBool(c.SingleFlight, false)
}

func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetCacheTTL returns the response cache TTL, caching forever when unset.
func (c *Config) GetCacheTTL() cache.TTL {
	if c.CacheTTL == nil {
		return cache.Forever()
	}
	return *c.CacheTTL
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".slng.yaml",
	"slng.yaml",
	".slng.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.DefaultEnvironment != "" {
		result.DefaultEnvironment = other.DefaultEnvironment
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.CacheTTL != nil {
		result.CacheTTL = other.CacheTTL
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.SingleFlight != nil {
		result.SingleFlight = other.SingleFlight
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}
	if len(other.Environments) > 0 {
		envs := make(map[string]map[string]any, len(result.Environments)+len(other.Environments))
		for k, v := range result.Environments {
			envs[k] = v
		}
		for k, v := range other.Environments {
			envs[k] = v
		}
		result.Environments = envs
	}
	result.Secrets = append(append([]string(nil), result.Secrets...), other.Secrets...)
	result.Sensitive = append(append([]string(nil), result.Sensitive...), other.Sensitive...)

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
