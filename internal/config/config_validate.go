// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minSecretLength is the minimum length for encryption keys and the session secret.
const minSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateStrava(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

// validateStrava validates the OAuth application and API client settings
func (c *Config) validateStrava() error {
	if err := c.validateStravaBaseURL(); err != nil {
		return err
	}
	if c.Strava.ClientID == "" {
		return fmt.Errorf("STRAVA_CLIENT_ID is required")
	}
	if c.Strava.ClientSecret == "" {
		return fmt.Errorf("STRAVA_CLIENT_SECRET is required")
	}
	if containsPlaceholder(c.Strava.ClientSecret) {
		return fmt.Errorf("STRAVA_CLIENT_SECRET contains a placeholder value")
	}
	if c.Strava.RedirectURI == "" {
		return fmt.Errorf("REDIRECT_URI is required")
	}
	if c.Strava.PerPage < 1 || c.Strava.PerPage > 200 {
		return fmt.Errorf("STRAVA_PER_PAGE must be between 1 and 200")
	}
	if c.Strava.RateLimitRequests < 1 || c.Strava.RateLimitWindow <= 0 {
		return fmt.Errorf("STRAVA_RATE_LIMIT_REQS and STRAVA_RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateStravaBaseURL() error {
	u, err := url.Parse(c.Strava.BaseURL)
	if err != nil {
		return fmt.Errorf("STRAVA_BASE is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("STRAVA_BASE must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("STRAVA_BASE must include a host")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if len(c.Security.EncryptionKeys) == 0 {
		return fmt.Errorf("ENCRYPTION_KEYS is required")
	}
	for i, key := range c.Security.EncryptionKeys {
		if len(key) < minSecretLength {
			return fmt.Errorf("ENCRYPTION_KEYS entry %d must be at least %d characters", i, minSecretLength)
		}
	}

	if len(c.Security.SessionSecret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLength)
	}
	if containsPlaceholder(c.Security.SessionSecret) {
		return fmt.Errorf("SESSION_SECRET contains a placeholder value")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}

	if c.IsProduction() && !c.Security.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be enabled in production")
	}

	return c.validateRateLimits()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("BADGER_PATH is required unless DATABASE_IN_MEMORY is set")
	}
	if c.Database.GCInterval <= 0 {
		return fmt.Errorf("BADGER_GC_INTERVAL must be positive")
	}
	if c.Database.GCRatio <= 0 || c.Database.GCRatio >= 1 {
		return fmt.Errorf("BADGER_GC_RATIO must be between 0 and 1 exclusive, got %v", c.Database.GCRatio)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns are values that indicate a secret was never filled in.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
