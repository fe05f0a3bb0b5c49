// Package config loads compintel settings from YAML, the environment and
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the config file lives unless overridden.
const DefaultConfigPath = "~/.compintel/config.yaml"

// Environment variables that override file settings.
const (
	EnvDB       = "COMPINTEL_DB"
	EnvAPIURL   = "COMPINTEL_API_URL"
	EnvAPIKey   = "COMPINTEL_API_KEY"
	EnvLogLevel = "COMPINTEL_LOG_LEVEL"
)

// Config holds all compintel configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
	Key  string `yaml:"key"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Concurrency    int    `yaml:"concurrency"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "~/.compintel/compintel.db",
			Key:  "neil_competitors",
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8001",
			TimeoutSeconds: 60,
			Concurrency:    4,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and falls back to defaults when it
// does not. Environment overrides are applied either way.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(expanded); err == nil {
		if cfg, err = Load(expanded); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides settings from COMPINTEL_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.API.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Exists reports whether a config file is present at path.
func Exists(path string) (bool, error) {
	path, err := expandPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking config file: %w", err)
	}
	return true, nil
}

// DBPath returns the storage path with ~ expanded.
func (c *Config) DBPath() (string, error) {
	return expandPath(c.Storage.Path)
}

// Timeout returns the research API request timeout.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
