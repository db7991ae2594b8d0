// Package domain contains the core entities for the game catalog collector.
package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// GameRecord is one normalized catalog entry, assembled from the storefront
// detail payload, the review summary, and the ownership-proxy estimate.
// Nullable upstream fields stay nil rather than collapsing to zero: a game
// with no review summary is not a game with zero reviews.
type GameRecord struct {
	AppID           int64           `json:"app_id"`
	Name            string          `json:"name"`
	ReleaseDate     string          `json:"release_date,omitzero"`
	ReleaseYear     *int            `json:"release_year"`
	OriginalPrice   *int64          `json:"original_price_cents"`
	CurrentPrice    *int64          `json:"current_price_cents"`
	IsFree          *bool           `json:"is_free"`
	Genres          []string        `json:"genres"`
	TotalReviews    *int64          `json:"total_reviews"`
	PositiveReviews *int64          `json:"positive_reviews"`
	OwnersProxy     *int64          `json:"owners_proxy"`
	SnapshotTime    time.Time       `json:"snapshot_time"`
	RawDetails      json.RawMessage `json:"raw_appdetails,omitzero"`
	RawReviews      json.RawMessage `json:"raw_review_summary,omitzero"`
}

// yearPattern matches the first run of four consecutive digits.
var yearPattern = regexp.MustCompile(`\d{4}`)

// YearFromReleaseDate extracts a release year from a storefront date string.
// Storefront dates come in locale-dependent shapes ("12 Nov, 2019",
// "Coming soon", "2021"); the first four-digit run anywhere in the string is
// taken as the year. Returns nil when no such run exists.
func YearFromReleaseDate(date string) *int {
	m := yearPattern.FindString(date)
	if m == "" {
		return nil
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &year
}

// OwnersOrZero returns the ownership proxy, treating nil as 0 for ranking.
func (r *GameRecord) OwnersOrZero() int64 {
	if r.OwnersProxy == nil {
		return 0
	}
	return *r.OwnersProxy
}

// ReviewsOrZero returns the total review count, treating nil as 0 for ranking.
func (r *GameRecord) ReviewsOrZero() int64 {
	if r.TotalReviews == nil {
		return 0
	}
	return *r.TotalReviews
}

// Free reports whether the record is known to be free-to-play.
// An unknown price model counts as not free.
func (r *GameRecord) Free() bool {
	return r.IsFree != nil && *r.IsFree
}
