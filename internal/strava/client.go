// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package strava is a client for the parts of the Strava API hexy uses:
// the OAuth authorize and token endpoints and the athlete activity list.
//
// Client talks HTTP directly and throttles itself to the configured request
// budget. CircuitBreakerClient wraps it to stop calling Strava while it is
// failing. Both implement API.
package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/carderne/hexy/internal/config"
	"github.com/carderne/hexy/internal/metrics"
)

const (
	authorizePath  = "/oauth/authorize"
	tokenPath      = "/oauth/token"
	activitiesPath = "/api/v3/athlete/activities"

	// oauthScope grants read access to public and private activities.
	oauthScope = "read,activity:read"
)

// API is the set of Strava operations used by the HTTP handlers.
type API interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Activities(ctx context.Context, accessToken string) ([]Activity, error)
}

// Client handles communication with the Strava HTTP API.
//
// Safe for concurrent use. Every request first waits on a token bucket sized
// to the configured budget, so bursts beyond it block instead of failing
// with HTTP 429.
type Client struct {
	baseURL      *url.URL
	clientID     string
	clientSecret string
	redirectURI  string
	perPage      int
	client       *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a Strava client from cfg.
func NewClient(cfg *config.StravaConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid strava base URL: %w", err)
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 200
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:      base,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		perPage:      perPage,
		client:       &http.Client{Timeout: timeout},
		limiter:      newLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
	}, nil
}

// newLimiter spreads requests evenly over window, allowing the whole budget
// as a burst. A non-positive budget disables throttling.
func newLimiter(requests int, window time.Duration) *rate.Limiter {
	if requests <= 0 || window <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// AuthorizeURL returns the Strava consent page URL. state is echoed back to
// the redirect URI and must be verified there.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.redirectURI)
	q.Set("approval_prompt", "force")
	q.Set("scope", oauthScope)
	if state != "" {
		q.Set("state", state)
	}
	return c.endpoint(authorizePath, q)
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	return c.token(ctx, "exchange_code", form)
}

// Refresh trades a refresh token for a new access token. Strava may rotate
// the refresh token; callers must store the returned one.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")
	return c.token(ctx, "refresh_token", form)
}

func (c *Client) token(ctx context.Context, op string, form url.Values) (*TokenResponse, error) {
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(tokenPath, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out TokenResponse
	if err := c.do(req, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activities returns the athlete's most recent activities, newest first.
func (c *Client) Activities(ctx context.Context, accessToken string) ([]Activity, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(c.perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(activitiesPath, q), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var out []Activity
	if err := c.do(req, "activities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do sends req once and decodes a 2xx JSON body into result.
func (c *Client) do(req *http.Request, op string, result interface{}) (err error) {
	start := time.Now()
	statusCode := ""
	defer func() {
		metrics.RecordStravaCall(op, time.Since(start), statusCode, err)
	}()

	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("strava %s: rate limiter: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("strava %s: HTTP request failed: %w", op, err)
	}
	defer resp.Body.Close()
	statusCode = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Operation: op, StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode strava %s response: %w", op, err)
	}
	return nil
}
