package sampler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gamescope/gamescope-collector/internal/domain"
	"github.com/gamescope/gamescope-collector/internal/steam"
)

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestMatchesMinYear(t *testing.T) {
	criteria := domain.FilterCriteria{MinYear: intPtr(2015)}

	assert.True(t, matches(&domain.GameRecord{ReleaseYear: intPtr(2015)}, criteria))
	assert.True(t, matches(&domain.GameRecord{ReleaseYear: intPtr(2022)}, criteria))
	assert.False(t, matches(&domain.GameRecord{ReleaseYear: intPtr(2014)}, criteria))
	// Unknown year fails a year constraint rather than sneaking through.
	assert.False(t, matches(&domain.GameRecord{ReleaseYear: nil}, criteria))
}

func TestMatchesGenre(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		target string
		want   bool
	}{
		{"main genre exact", []string{"Action", "Indie"}, "Action", true},
		{"non-main genre rejected", []string{"Action", "Strategy"}, "Strategy", false},
		{"main genre case sensitive", []string{"action"}, "Action", false},
		{"empty list", nil, "Action", false},
		{"indie anywhere", []string{"Action", "Indie"}, "indie", true},
		{"indie target case insensitive", []string{"Indie"}, "INDIE", true},
		{"indie label must be literal", []string{"indie"}, "Indie", false},
		{"indie absent", []string{"Action", "RPG"}, "Indie", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.GameRecord{Genres: tt.genres}
			got := matches(&rec, domain.FilterCriteria{TargetMainGenre: strPtr(tt.target)})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesFreeOnly(t *testing.T) {
	free := domain.GameRecord{IsFree: boolPtr(true)}
	paid := domain.GameRecord{IsFree: boolPtr(false)}
	unknown := domain.GameRecord{}

	assert.True(t, matches(&free, domain.FilterCriteria{FreeOnly: boolPtr(true)}))
	assert.False(t, matches(&paid, domain.FilterCriteria{FreeOnly: boolPtr(true)}))
	assert.True(t, matches(&paid, domain.FilterCriteria{FreeOnly: boolPtr(false)}))
	// An unknown price model counts as paid.
	assert.False(t, matches(&unknown, domain.FilterCriteria{FreeOnly: boolPtr(true)}))
	assert.True(t, matches(&unknown, domain.FilterCriteria{FreeOnly: boolPtr(false)}))
}

func TestMatchesUnconstrained(t *testing.T) {
	assert.True(t, matches(&domain.GameRecord{}, domain.FilterCriteria{}))
}

func TestBuildRecord(t *testing.T) {
	detail := &steam.AppDetail{
		AppID:       440,
		Name:        "Team Fortress 2",
		Type:        "game",
		IsFree:      boolPtr(true),
		ReleaseDate: "10 Oct, 2007",
		Genres: []steam.Genre{
			{ID: "1", Description: "Action"},
			{ID: "37", Description: ""},
			{ID: "23", Description: "Indie"},
		},
		PriceOverview: &steam.PriceOverview{Currency: "USD", Initial: 1999, Final: 999},
		Raw:           []byte(`{"name":"Team Fortress 2"}`),
	}
	reviews := &steam.ReviewSummary{
		TotalReviews:  100,
		TotalPositive: 90,
		Raw:           []byte(`{"total_reviews":100}`),
	}
	owners := int64(1_500_000)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	rec := buildRecord(detail, reviews, &owners, now)

	assert.Equal(t, int64(440), rec.AppID)
	assert.Equal(t, "Team Fortress 2", rec.Name)
	assert.Equal(t, intPtr(2007), rec.ReleaseYear)
	assert.Equal(t, []string{"Action", "Indie"}, rec.Genres)
	assert.Equal(t, int64(1999), *rec.OriginalPrice)
	assert.Equal(t, int64(999), *rec.CurrentPrice)
	assert.Equal(t, int64(100), *rec.TotalReviews)
	assert.Equal(t, int64(90), *rec.PositiveReviews)
	assert.Equal(t, owners, *rec.OwnersProxy)
	assert.Equal(t, now, rec.SnapshotTime)
	assert.JSONEq(t, `{"name":"Team Fortress 2"}`, string(rec.RawDetails))
}

func TestBuildRecordSparse(t *testing.T) {
	detail := &steam.AppDetail{AppID: 7, Name: "Mystery", ReleaseDate: "Coming soon"}

	rec := buildRecord(detail, nil, nil, time.Now())

	assert.Nil(t, rec.ReleaseYear)
	assert.Nil(t, rec.OriginalPrice)
	assert.Nil(t, rec.TotalReviews)
	assert.Nil(t, rec.OwnersProxy)
	assert.NotNil(t, rec.Genres)
	assert.Empty(t, rec.Genres)
}
