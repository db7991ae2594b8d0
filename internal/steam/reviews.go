package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// ReviewSummary fetches aggregated review statistics for a single app from
// the appreviews endpoint. Returns (nil, nil) when the endpoint reports no
// summary for the app; callers must keep review fields null in that case
// rather than defaulting them to zero.
func (c *Client) ReviewSummary(ctx context.Context, appID int64) (*ReviewSummary, error) {
	fullURL := c.cfg.StoreBaseURL + "/appreviews/" + strconv.FormatInt(appID, 10) +
		"?json=1&language=all&purchase_type=all&num_per_page=0"

	body, err := c.doRequest(ctx, storefrontLimitKey, fullURL)
	if err != nil {
		return nil, wrapError("reviewSummary", appID, err)
	}

	var resp rawReviewsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("reviewSummary", appID, fmt.Errorf("parse response: %w", err))
	}

	if len(resp.QuerySummary) == 0 {
		return nil, nil
	}

	var summary ReviewSummary
	if err := json.Unmarshal(resp.QuerySummary, &summary); err != nil {
		return nil, wrapError("reviewSummary", appID, fmt.Errorf("parse query_summary: %w", err))
	}
	summary.Raw = resp.QuerySummary

	return &summary, nil
}
