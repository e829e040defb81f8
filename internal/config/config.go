// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package config loads hexy's runtime configuration.
//
// Configuration is layered with Koanf v2 (highest priority wins):
//   - Environment variables (STRAVA_CLIENT_ID, ENCRYPTION_KEYS, HTTP_PORT, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// The resulting Config is passed explicitly into component constructors;
// nothing else in the module reads the environment.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Strava   StravaConfig   `koanf:"strava"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Map      MapConfig      `koanf:"map"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development" or "production"
}

// StravaConfig holds the OAuth application and API client settings.
type StravaConfig struct {
	BaseURL      string        `koanf:"base_url"`
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	RedirectURI  string        `koanf:"redirect_uri"`
	Timeout      time.Duration `koanf:"timeout"`
	PerPage      int           `koanf:"per_page"`

	// Outbound budget; Strava allows 100 requests per 15 minutes by default.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// SecurityConfig holds credential encryption, session and HTTP hardening settings
type SecurityConfig struct {
	// EncryptionKeys are secrets for refresh token encryption, newest first.
	// Older keys stay readable so they can be rotated out.
	EncryptionKeys []string `koanf:"encryption_keys"`

	// SessionSecret signs OAuth state tokens.
	SessionSecret  string        `koanf:"session_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
	CookieSecure   bool          `koanf:"cookie_secure"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig holds BadgerDB settings for users and sessions
type DatabaseConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`
}

// MapConfig holds settings handed to the browser map client.
type MapConfig struct {
	// OSKey is the Ordnance Survey API key for vector tiles. The key is
	// public by nature; it is sent to every signed-in browser.
	OSKey string `koanf:"os_key"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
