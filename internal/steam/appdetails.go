package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// AppDetail fetches detailed information for a single app from the
// Storefront appdetails endpoint. Apps that are not games (DLC, soundtracks,
// tools) and apps the storefront refuses to describe return (nil, nil):
// absence, not failure.
func (c *Client) AppDetail(ctx context.Context, appID int64) (*AppDetail, error) {
	query := url.Values{}
	query.Set("appids", strconv.FormatInt(appID, 10))
	query.Set("cc", "us")
	query.Set("l", "en")

	fullURL := c.cfg.StoreBaseURL + "/api/appdetails?" + query.Encode()

	body, err := c.doRequest(ctx, storefrontLimitKey, fullURL)
	if err != nil {
		return nil, wrapError("appDetail", appID, err)
	}

	// The envelope is keyed by the decimal app id.
	var envelope map[string]rawDetailEntry
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, wrapError("appDetail", appID, fmt.Errorf("parse envelope: %w", err))
	}

	entry, ok := envelope[strconv.FormatInt(appID, 10)]
	if !ok || !entry.Success || len(entry.Data) == 0 {
		return nil, nil
	}

	var data rawAppData
	if err := json.Unmarshal(entry.Data, &data); err != nil {
		return nil, wrapError("appDetail", appID, fmt.Errorf("parse data: %w", err))
	}

	if data.Type != "game" {
		return nil, nil
	}

	return &AppDetail{
		AppID:               appID,
		Name:                data.Name,
		Type:                data.Type,
		IsFree:              data.IsFree,
		ReleaseDate:         data.ReleaseDate.Date,
		ComingSoon:          data.ReleaseDate.ComingSoon,
		Genres:              data.Genres,
		PriceOverview:       data.PriceOverview,
		ShortDescription:    data.ShortDescription,
		DetailedDescription: data.DetailedDescription,
		Raw:                 entry.Data,
	}, nil
}
