// Package steam provides rate-limited clients for the Steam Web API and
// Storefront API: the app catalog listing, per-app details, and review
// aggregates.
package steam

import "encoding/json"

// AppEntry is one catalog entry from the app list endpoint.
type AppEntry struct {
	AppID int64  `json:"appid"`
	Name  string `json:"name"`
}

// Genre is one genre entry from the storefront detail payload.
// Description may be empty; callers decide whether to keep such entries.
type Genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// PriceOverview is the storefront price block. Prices are in cents of the
// storefront currency. The block is absent for free and unreleased apps.
type PriceOverview struct {
	Currency string `json:"currency"`
	Initial  int64  `json:"initial"`
	Final    int64  `json:"final"`
}

// AppDetail is the normalized storefront detail payload for one app.
// Raw retains the verbatim data block for provenance.
type AppDetail struct {
	AppID               int64
	Name                string
	Type                string
	IsFree              *bool
	ReleaseDate         string
	ComingSoon          bool
	Genres              []Genre
	PriceOverview       *PriceOverview
	ShortDescription    string
	DetailedDescription string
	Raw                 json.RawMessage
}

// ReviewSummary is the aggregate review block from the appreviews endpoint.
// Raw retains the verbatim query_summary block for provenance.
type ReviewSummary struct {
	TotalReviews    int64           `json:"total_reviews"`
	TotalPositive   int64           `json:"total_positive"`
	TotalNegative   int64           `json:"total_negative"`
	ReviewScore     int             `json:"review_score"`
	ReviewScoreDesc string          `json:"review_score_desc"`
	Raw             json.RawMessage `json:"-"`
}

// Raw API response types (internal)

type rawAppListResponse struct {
	Response struct {
		Apps []AppEntry `json:"apps"`
	} `json:"response"`
}

type rawDetailEntry struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type rawAppData struct {
	Type                string         `json:"type"`
	Name                string         `json:"name"`
	SteamAppID          int64          `json:"steam_appid"`
	IsFree              *bool          `json:"is_free"`
	DetailedDescription string         `json:"detailed_description"`
	ShortDescription    string         `json:"short_description"`
	Genres              []Genre        `json:"genres"`
	PriceOverview       *PriceOverview `json:"price_overview"`
	ReleaseDate         struct {
		ComingSoon bool   `json:"coming_soon"`
		Date       string `json:"date"`
	} `json:"release_date"`
}

type rawReviewsResponse struct {
	Success      int             `json:"success"`
	QuerySummary json.RawMessage `json:"query_summary"`
}
