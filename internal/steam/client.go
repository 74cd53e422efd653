// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

// Package steam is a small client for the Steam endpoints Steamvault reads:
// the Web API (api.steampowered.com), the store (store.steampowered.com)
// and the community site (steamcommunity.com).
//
// Client Features:
//   - Bodies are returned for any HTTP status; each endpoint decides what a
//     non-200 body means (GetPlayerAchievements answers 400 with a JSON
//     "success": false body for games without stats)
//   - API key sent as a query parameter to Web API endpoints only
//   - Per-host token-bucket rate limiting
//   - Opt-in retries on HTTP 429 honouring Retry-After
//   - Circuit breaker wrapper (CircuitBreakerClient)
//
// Related Files:
//   - user.go: vanity resolution, player summaries, owned games
//   - stats.go: per-game achievements
//   - store.go: app catalog, app details, wishlist pages
//   - community.go: community games page
package steam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/steamvault/internal/config"
	"github.com/tomtom215/steamvault/internal/metrics"
)

// maxErrorBodySize limits how much of a body is quoted in error messages.
const maxErrorBodySize = 512

// maxResponseSize bounds a single response body. The full app catalog is
// the largest response Steamvault reads and is well below this.
const maxResponseSize = 256 << 20

// API is the set of Steam calls used by the backup. It is implemented by
// Client and CircuitBreakerClient, and by fakes in tests.
type API interface {
	ResolveVanityURL(ctx context.Context, vanity string) (*VanityURLResult, error)
	GetPlayerSummaries(ctx context.Context, steamID string) (*PlayerSummaries, error)
	GetOwnedGames(ctx context.Context, steamID string, includePlayedFree bool) (*OwnedGames, error)
	GetPlayerAchievements(ctx context.Context, steamID string, appID int) (*PlayerStats, error)
	GetAppList(ctx context.Context) (*AppList, error)
	GetAppDetails(ctx context.Context, appID int) (*AppDetails, error)
	GetWishlistPage(ctx context.Context, steamID string, page int) (WishlistPage, error)
	GetCommunityGamesPage(ctx context.Context, profile ProfileRef) (string, error)
}

var _ API = (*Client)(nil)

// Client handles communication with Steam.
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
type Client struct {
	apiBaseURL       string
	storeBaseURL     string
	communityBaseURL string
	apiKey           string
	userAgent        string
	language         string
	countryCode      string

	client         *http.Client
	limiter        *hostLimiter
	maxRetries     int           // Retries on HTTP 429
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a Steam client from the steam and metadata config sections.
func NewClient(cfg *config.SteamConfig, meta *config.MetadataConfig) *Client {
	c := &Client{
		apiBaseURL:       cfg.APIBaseURL,
		storeBaseURL:     cfg.StoreBaseURL,
		communityBaseURL: cfg.CommunityBaseURL,
		apiKey:           cfg.APIKey,
		userAgent:        cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter:        newHostLimiter(cfg.RateLimit, cfg.RateBurst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
	}
	if meta != nil {
		c.language = meta.Language
		c.countryCode = meta.CountryCode
	}
	return c
}

// response is a fetched body with the status it came with.
type response struct {
	status int
	body   []byte
}

// fetch GETs rawURL and returns the body whatever the HTTP status. Only
// transport failures, cancellation and exhausted 429 retries are errors.
func (c *Client) fetch(ctx context.Context, endpoint, rawURL string) (*response, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("steam %s: invalid url: %w", endpoint, err)
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx, parsed.Host); err != nil {
			return nil, fmt.Errorf("steam %s: %w", endpoint, err)
		}

		resp, err := c.do(ctx, endpoint, rawURL)
		if err != nil {
			return nil, err
		}

		if resp.status != http.StatusTooManyRequests || c.maxRetries == 0 {
			return resp.response, nil
		}
		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("steam %s: %w after %d retries", endpoint, ErrRateLimited, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.retryAfter; retryAfter > 0 {
			delay = retryAfter
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// fetchResult extends response with the parsed Retry-After header.
type fetchResult struct {
	*response
	retryAfter time.Duration
}

func (c *Client) do(ctx context.Context, endpoint, rawURL string) (*fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("steam %s: create request: %w", endpoint, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordSteamRequest(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("steam %s: request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	metrics.RecordSteamRequest(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("steam %s: read body: %w", endpoint, err)
	}

	result := &fetchResult{response: &response{status: resp.StatusCode, body: body}}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			result.retryAfter = time.Duration(seconds) * time.Second
		}
	}
	return result, nil
}

// bodySnippet returns the start of a body for error messages.
func bodySnippet(body []byte) string {
	if len(body) <= maxErrorBodySize {
		return string(body)
	}
	return string(body[:maxErrorBodySize]) + "... (truncated)"
}
