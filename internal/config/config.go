package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the console configuration
type Config struct {
	API        APIConfig        `yaml:"api"`
	Credential CredentialConfig `yaml:"credential"`
	Banner     BannerConfig     `yaml:"banner"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Log        LogConfig        `yaml:"log"`
}

// APIConfig contains the applications REST API settings
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// CredentialConfig says where the bearer token is read from
type CredentialConfig struct {
	TokenFile string `yaml:"token_file"`
	TokenEnv  string `yaml:"token_env"`
}

// BannerConfig contains transient error banner settings
type BannerConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// RefreshConfig contains the background refresh schedule.
// Schedule uses cron syntax with seconds; empty disables the refresh.
type RefreshConfig struct {
	Schedule string `yaml:"schedule"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
	File   string `yaml:"file"`
}

// Load reads configuration from a YAML file. A missing file is not an error:
// defaults and environment variables still apply.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// .env next to the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// API
	if val := os.Getenv("RC_API_BASE_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("RC_API_TIMEOUT_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.API.TimeoutSeconds)
	}

	// Credential
	if val := os.Getenv("RC_TOKEN_FILE"); val != "" {
		c.Credential.TokenFile = val
	}

	// Banner
	if val := os.Getenv("RC_BANNER_TTL_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Banner.TTLSeconds)
	}

	// Refresh
	if val := os.Getenv("RC_REFRESH_SCHEDULE"); val != "" {
		c.Refresh.Schedule = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.Log.File = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// API
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:5040"
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid api timeout: %d", c.API.TimeoutSeconds)
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 15
	}

	// Credential
	if c.Credential.TokenEnv == "" {
		c.Credential.TokenEnv = "RC_TOKEN"
	}
	if c.Credential.TokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("token file is required: %w", err)
		}
		c.Credential.TokenFile = filepath.Join(home, ".recruiter-console", "token")
	}

	// Banner
	if c.Banner.TTLSeconds < 0 {
		return fmt.Errorf("invalid banner ttl: %d", c.Banner.TTLSeconds)
	}
	if c.Banner.TTLSeconds == 0 {
		c.Banner.TTLSeconds = 5
	}

	c.Refresh.Schedule = strings.TrimSpace(c.Refresh.Schedule)

	return nil
}

// GetAPITimeout returns the per-request timeout
func (c *Config) GetAPITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// GetBannerTTL returns how long an error stays on screen
func (c *Config) GetBannerTTL() time.Duration {
	return time.Duration(c.Banner.TTLSeconds) * time.Second
}
