package steam

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamescope/gamescope-collector/internal/ratelimit"
)

const (
	// Rate limiter keys. The Web API and the Storefront are separate hosts
	// with separate, undocumented budgets.
	webAPILimitKey     = "steam-webapi"
	storefrontLimitKey = "steam-storefront"

	// Storefront tolerates a few requests per second; the Web API is
	// effectively unconstrained at our volumes but paced anyway.
	storefrontRPS   = 3.0
	storefrontBurst = 3
	webAPIRPS       = 1.0
	webAPIBurst     = 2

	// HTTP client settings
	defaultTimeout = 20 * time.Second

	// Upstream cap on one GetAppList page. Unbounded scans fall back to
	// this as the sample-frame ceiling.
	maxAppListResults = 50000
)

// Config carries the endpoint settings for the Steam clients. Credentials
// and base URLs are injected rather than read from process-wide state.
type Config struct {
	// APIKey is the Steam Web API key, required by the app list endpoint.
	APIKey string
	// WebAPIBaseURL is the Web API origin (default https://api.steampowered.com).
	WebAPIBaseURL string
	// StoreBaseURL is the Storefront origin (default https://store.steampowered.com).
	StoreBaseURL string
}

// withDefaults fills empty endpoints with the public origins.
func (c Config) withDefaults() Config {
	if c.WebAPIBaseURL == "" {
		c.WebAPIBaseURL = "https://api.steampowered.com"
	}
	if c.StoreBaseURL == "" {
		c.StoreBaseURL = "https://store.steampowered.com"
	}
	return c
}

// Client is a rate-limited Steam API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	cfg     Config
	logger  *slog.Logger
}

// New creates a new Steam client.
func New(cfg Config, logger *slog.Logger) *Client {
	limiter := ratelimit.New(ratelimit.Rate{RPS: 1, Burst: 1})
	limiter.SetRate(storefrontLimitKey, ratelimit.Rate{RPS: storefrontRPS, Burst: storefrontBurst})
	limiter.SetRate(webAPILimitKey, ratelimit.Rate{RPS: webAPIRPS, Burst: webAPIBurst})

	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: limiter,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// doRequest executes a GET with rate limiting against the given limiter key.
func (c *Client) doRequest(ctx context.Context, limitKey, fullURL string) ([]byte, error) {
	// Wait for rate limit
	if err := c.limiter.Wait(ctx, limitKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gamescope-collector/1.0")

	c.logger.Debug("steam request",
		"key", limitKey,
		"url", fullURL,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
