package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearFromReleaseDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want *int
	}{
		{"standard storefront format", "12 Nov, 2019", intPtr(2019)},
		{"year only", "2021", intPtr(2021)},
		{"year first", "2020-03-15", intPtr(2020)},
		{"coming soon", "Coming soon", nil},
		{"empty", "", nil},
		{"short digit runs", "1 Jan, 99", nil},
		{"first run wins", "Q4 2018 or 2019", intPtr(2018)},
		{"longer run truncated to first four", "12345", intPtr(1234)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YearFromReleaseDate(tt.date)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestGameRecord_RankingKeys(t *testing.T) {
	owners := int64(150000)
	reviews := int64(4200)

	r := GameRecord{OwnersProxy: &owners, TotalReviews: &reviews}
	assert.Equal(t, int64(150000), r.OwnersOrZero())
	assert.Equal(t, int64(4200), r.ReviewsOrZero())

	// Nil popularity signals rank as zero, not as missing.
	empty := GameRecord{}
	assert.Equal(t, int64(0), empty.OwnersOrZero())
	assert.Equal(t, int64(0), empty.ReviewsOrZero())
}

func TestGameRecord_Free(t *testing.T) {
	free := true
	paid := false

	assert.True(t, (&GameRecord{IsFree: &free}).Free())
	assert.False(t, (&GameRecord{IsFree: &paid}).Free())
	assert.False(t, (&GameRecord{}).Free(), "unknown price model is not free")
}

func TestSampleMode_Valid(t *testing.T) {
	assert.True(t, SampleRandom.Valid())
	assert.True(t, SampleTop.Valid())
	assert.False(t, SampleMode("weighted").Valid())
	assert.False(t, SampleMode("").Valid())
}

func TestSamplingConfig_Bounded(t *testing.T) {
	assert.True(t, SamplingConfig{MaxCandidates: 2000}.Bounded())
	assert.False(t, SamplingConfig{MaxCandidates: UnboundedScan}.Bounded())
}

func intPtr(v int) *int { return &v }
