// Package steamspy provides a client for the SteamSpy API, used as an
// ownership-proxy source: the reported owners range midpoint stands in for
// a sales figure the platform does not publish.
package steamspy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client provides access to the SteamSpy appdetails API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	logger      *slog.Logger
}

// NewClient creates a new SteamSpy client.
// SteamSpy asks for at most 1 request per second.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://steamspy.com/api.php"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL:     baseURL,
		logger:      logger,
	}
}

// rawAppDetails is the subset of the SteamSpy payload we read.
type rawAppDetails struct {
	Owners string `json:"owners"`
}

// OwnersMidpoint queries SteamSpy for a single app and returns the midpoint
// of the reported owners interval. Returns (nil, nil) when the value is
// absent or unparseable: the proxy is best-effort and its absence never
// fails a record.
func (c *Client) OwnersMidpoint(ctx context.Context, appID int64) (*int64, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	query := url.Values{}
	query.Set("request", "appdetails")
	query.Set("appid", strconv.FormatInt(appID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steamspy status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var details rawAppDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	mid, ok := parseOwnersRange(details.Owners)
	if !ok {
		c.logger.Debug("steamspy owners range unavailable",
			"app_id", appID,
			"owners", details.Owners,
		)
		return nil, nil
	}
	return &mid, nil
}

// parseOwnersRange converts an owners interval like "1,000,000 .. 2,000,000"
// into its midpoint. Returns false for anything that is not a two-sided range.
func parseOwnersRange(owners string) (int64, bool) {
	if owners == "" {
		return 0, false
	}

	cleaned := strings.NewReplacer(",", "", " ", "").Replace(owners)
	parts := strings.Split(cleaned, "..")
	if len(parts) != 2 {
		return 0, false
	}

	low, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	high, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}

	return (low + high) / 2, true
}
