package sampler

import (
	"time"

	"github.com/gamescope/gamescope-collector/internal/domain"
	"github.com/gamescope/gamescope-collector/internal/steam"
)

// buildRecord assembles a GameRecord from the storefront detail payload plus
// whatever enrichment is available. reviews and owners may be nil; the record
// keeps those fields nil rather than zeroing them.
func buildRecord(detail *steam.AppDetail, reviews *steam.ReviewSummary, owners *int64, snapshot time.Time) domain.GameRecord {
	rec := domain.GameRecord{
		AppID:        detail.AppID,
		Name:         detail.Name,
		ReleaseDate:  detail.ReleaseDate,
		ReleaseYear:  domain.YearFromReleaseDate(detail.ReleaseDate),
		IsFree:       detail.IsFree,
		Genres:       genreNames(detail.Genres),
		OwnersProxy:  owners,
		SnapshotTime: snapshot,
		RawDetails:   detail.Raw,
	}

	if detail.PriceOverview != nil {
		initial, final := detail.PriceOverview.Initial, detail.PriceOverview.Final
		rec.OriginalPrice = &initial
		rec.CurrentPrice = &final
	}

	if reviews != nil {
		total, positive := reviews.TotalReviews, reviews.TotalPositive
		rec.TotalReviews = &total
		rec.PositiveReviews = &positive
		rec.RawReviews = reviews.Raw
	}

	return rec
}

// genreNames flattens genre entries to their descriptions, preserving order
// and duplicates. Entries with an empty description are dropped. The result
// is never nil so the record always serializes genres as a list.
func genreNames(genres []steam.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if g.Description != "" {
			names = append(names, g.Description)
		}
	}
	return names
}
