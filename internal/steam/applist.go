package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// AppIDs returns up to limit app identifiers from the catalog, games only.
// A non-positive limit, or one above the upstream page cap, falls back to
// the cap. Order is as returned by the endpoint; it defines scan order but
// is otherwise insignificant.
func (c *Client) AppIDs(ctx context.Context, limit int) ([]int64, error) {
	entries, err := c.AppList(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if e.AppID > 0 {
			ids = append(ids, e.AppID)
		}
	}
	return ids, nil
}

// AppList calls the IStoreService app list endpoint and returns catalog
// entries. DLC, software, videos and hardware are excluded upstream.
func (c *Client) AppList(ctx context.Context, limit int) ([]AppEntry, error) {
	if c.cfg.APIKey == "" {
		return nil, wrapError("appList", 0, ErrMissingAPIKey)
	}

	if limit <= 0 || limit > maxAppListResults {
		limit = maxAppListResults
	}

	query := url.Values{}
	query.Set("key", c.cfg.APIKey)
	query.Set("include_games", "true")
	query.Set("include_dlc", "false")
	query.Set("include_software", "false")
	query.Set("include_videos", "false")
	query.Set("include_hardware", "false")
	query.Set("max_results", strconv.Itoa(limit))

	fullURL := c.cfg.WebAPIBaseURL + "/IStoreService/GetAppList/v1/?" + query.Encode()

	body, err := c.doRequest(ctx, webAPILimitKey, fullURL)
	if err != nil {
		return nil, wrapError("appList", 0, err)
	}

	var resp rawAppListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("appList", 0, fmt.Errorf("parse response: %w", err))
	}

	return resp.Response.Apps, nil
}
