package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_KEY", "ASCIIFM_API_KEY", "ASCIIFM_BASE_URL", "ASCIIFM_USER_AGENT",
		"ASCIIFM_PROXY", "ASCIIFM_COLUMNS", "ASCIIFM_LOG_LEVEL",
		"ASCIIFM_LOG_FORMAT", "ASCIIFM_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Render.Columns != 80 {
		t.Errorf("Columns = %d, want 80", cfg.Render.Columns)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.UserAgent == "" {
		t.Error("expected a default user agent")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
api_key: file-key
timeout: 5s
render:
  columns: 60
  color: true
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file-key", cfg.APIKey)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.Render.Columns != 60 || !cfg.Render.Color {
		t.Errorf("Render = %+v, want columns 60 with color", cfg.Render)
	}
	if cfg.Render.Charset == "" {
		t.Error("charset default should survive a partial render block")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_key: file-key\nrender:\n  columns: 60\n")
	t.Setenv("API_KEY", "env-key")
	t.Setenv("ASCIIFM_COLUMNS", "100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if cfg.Render.Columns != 100 {
		t.Errorf("Columns = %d, want 100", cfg.Render.Columns)
	}
}

func TestPrefixedKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "plain")
	t.Setenv("ASCIIFM_API_KEY", "prefixed")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "prefixed" {
		t.Errorf("APIKey = %q, want prefixed", cfg.APIKey)
	}
}

func TestValidateRejectsBadRender(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero columns", func(c *Config) { c.Render.Columns = 0 }},
		{"negative ratio", func(c *Config) { c.Render.WidthRatio = -1 }},
		{"short charset", func(c *Config) { c.Render.Charset = "#" }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	if err := cfg.RequireAPIKey(); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
	cfg.APIKey = "   "
	if err := cfg.RequireAPIKey(); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("blank key: expected ErrMissingCredential, got %v", err)
	}
	cfg.APIKey = "abc"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
