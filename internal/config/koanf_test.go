// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	testKey    = "0123456789abcdef0123456789abcdef"
	testOldKey = "fedcba9876543210fedcba9876543210"
	testSecret = "session-signing-secret-0123456789"
)

// setRequiredEnv sets the minimum environment for a valid configuration.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STRAVA_CLIENT_ID", "12345")
	t.Setenv("STRAVA_CLIENT_SECRET", "client-secret")
	t.Setenv("REDIRECT_URI", "http://localhost:8000/callback")
	t.Setenv("ENCRYPTION_KEYS", testKey)
	t.Setenv("SESSION_SECRET", testSecret)
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Strava.BaseURL != "https://www.strava.com" {
		t.Errorf("Strava.BaseURL = %q, want https://www.strava.com", cfg.Strava.BaseURL)
	}
	if cfg.Strava.PerPage != 200 {
		t.Errorf("Strava.PerPage = %d, want 200", cfg.Strava.PerPage)
	}
	if cfg.Strava.RateLimitRequests != 100 || cfg.Strava.RateLimitWindow != 15*time.Minute {
		t.Errorf("Strava rate limit = %d/%v, want 100/15m", cfg.Strava.RateLimitRequests, cfg.Strava.RateLimitWindow)
	}
	if cfg.Security.SessionTimeout != 30*24*time.Hour {
		t.Errorf("Security.SessionTimeout = %v, want 720h", cfg.Security.SessionTimeout)
	}
	if !cfg.Security.CookieSecure {
		t.Error("Security.CookieSecure should default to true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STRAVA_BASE", "http://127.0.0.1:9999")
	t.Setenv("STRAVA_TIMEOUT", "5s")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_IN_MEMORY", "true")
	t.Setenv("OS_KEY", "os-key")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Strava.BaseURL != "http://127.0.0.1:9999" {
		t.Errorf("Strava.BaseURL = %q", cfg.Strava.BaseURL)
	}
	if cfg.Strava.Timeout != 5*time.Second {
		t.Errorf("Strava.Timeout = %v, want 5s", cfg.Strava.Timeout)
	}
	if cfg.Security.CookieSecure {
		t.Error("Security.CookieSecure should be overridden to false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Database.InMemory {
		t.Error("Database.InMemory should be true")
	}
	if cfg.Map.OSKey != "os-key" {
		t.Errorf("Map.OSKey = %q, want os-key", cfg.Map.OSKey)
	}
}

func TestLoadWithKoanf_SliceFields(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENCRYPTION_KEYS", testKey+", "+testOldKey+",")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	keys := cfg.Security.EncryptionKeys
	if len(keys) != 2 || keys[0] != testKey || keys[1] != testOldKey {
		t.Errorf("EncryptionKeys = %q, want [%s %s]", keys, testKey, testOldKey)
	}
	origins := cfg.Security.CORSOrigins
	if len(origins) != 2 || origins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %q", origins)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
  environment: production
strava:
  per_page: 50
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	// Environment beats the file.
	t.Setenv("STRAVA_PER_PAGE", "25")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.Strava.PerPage != 25 {
		t.Errorf("Strava.PerPage = %d, want 25 from env", cfg.Strava.PerPage)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"STRAVA_CLIENT_ID", "strava.client_id"},
		{"FERNET_KEYS", "security.encryption_keys"},
		{"BADGER_PATH", "database.path"},
		{"OS_KEY", "map.os_key"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Strava.ClientID = "12345"
	cfg.Strava.ClientSecret = "client-secret"
	cfg.Strava.RedirectURI = "http://localhost:8000/callback"
	cfg.Security.EncryptionKeys = []string{testKey}
	cfg.Security.SessionSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"missing client id", func(c *Config) { c.Strava.ClientID = "" }, "STRAVA_CLIENT_ID"},
		{"missing client secret", func(c *Config) { c.Strava.ClientSecret = "" }, "STRAVA_CLIENT_SECRET"},
		{"placeholder client secret", func(c *Config) { c.Strava.ClientSecret = "changeme" }, "placeholder"},
		{"bad base url scheme", func(c *Config) { c.Strava.BaseURL = "ftp://strava.com" }, "STRAVA_BASE"},
		{"base url without host", func(c *Config) { c.Strava.BaseURL = "https://" }, "STRAVA_BASE"},
		{"per page too large", func(c *Config) { c.Strava.PerPage = 201 }, "STRAVA_PER_PAGE"},
		{"no encryption keys", func(c *Config) { c.Security.EncryptionKeys = nil }, "ENCRYPTION_KEYS"},
		{"short encryption key", func(c *Config) { c.Security.EncryptionKeys = []string{testKey, "short"} }, "entry 1"},
		{"short session secret", func(c *Config) { c.Security.SessionSecret = "short" }, "SESSION_SECRET"},
		{"insecure cookie in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CookieSecure = false
		}, "COOKIE_SECURE"},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQS"},
		{"zero rate limit when disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
		{"no database path", func(c *Config) { c.Database.Path = "" }, "BADGER_PATH"},
		{"in memory database without path", func(c *Config) {
			c.Database.Path = ""
			c.Database.InMemory = true
		}, ""},
		{"zero gc interval", func(c *Config) { c.Database.GCInterval = 0 }, "BADGER_GC_INTERVAL"},
		{"gc ratio of one", func(c *Config) { c.Database.GCRatio = 1 }, "BADGER_GC_RATIO"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
