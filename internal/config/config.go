// Package config builds the single configuration value used for one
// asciifm invocation.
//
// Sources are applied in order, later ones winning:
//
//	defaults < YAML file < .env / process environment < CLI flags
//
// CLI flags are applied by the caller after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"asciifm/internal/version"
)

// DefaultBaseURL is the Last.fm API 2.0 endpoint.
const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// ErrMissingCredential is returned when no API key could be found.
var ErrMissingCredential = errors.New("API_KEY not found")

// Config holds all application configuration.
type Config struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Proxy     string        `yaml:"proxy"`
	Timeout   time.Duration `yaml:"timeout"`
	Progress  bool          `yaml:"progress"`
	Render    RenderConfig  `yaml:"render"`
	Logging   LoggingConfig `yaml:"logging"`
}

// RenderConfig controls the text-art conversion.
type RenderConfig struct {
	Columns    int     `yaml:"columns"`
	WidthRatio float64 `yaml:"width_ratio"`
	Charset    string  `yaml:"charset"`
	Color      bool    `yaml:"color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: version.UserAgent(),
		Timeout:   30 * time.Second,
		Render: RenderConfig{
			Columns:    80,
			WidthRatio: 2.2,
			Charset:    " .:-=+*#%@",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// GetConfigPath returns the default location of the YAML config file.
func GetConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "asciifm", "config.yaml")
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. A .env file in the working directory is read
// first; it never overrides variables that are already set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("ASCIIFM_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("ASCIIFM_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("ASCIIFM_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("ASCIIFM_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("ASCIIFM_COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Render.Columns = n
		}
	}
	if v := os.Getenv("ASCIIFM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ASCIIFM_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("ASCIIFM_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

// Validate checks structural settings. The API key is checked separately
// by RequireAPIKey so that usage output never depends on a credential.
func (c *Config) Validate() error {
	if c.Render.Columns < 1 {
		return fmt.Errorf("invalid columns: %d", c.Render.Columns)
	}
	if c.Render.WidthRatio <= 0 {
		return fmt.Errorf("invalid width ratio: %g", c.Render.WidthRatio)
	}
	if len([]rune(c.Render.Charset)) < 2 {
		return fmt.Errorf("charset needs at least 2 characters, got %q", c.Render.Charset)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	return nil
}

// RequireAPIKey returns ErrMissingCredential when no key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingCredential
	}
	return nil
}
