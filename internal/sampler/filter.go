package sampler

import (
	"strings"

	"github.com/gamescope/gamescope-collector/internal/domain"
)

// matches evaluates the filter criteria against a record. All constraints
// must hold; an unset constraint always passes.
//
// The record only needs its detail-derived fields (year, genres, free flag)
// populated, so callers can filter before paying for review and ownership
// lookups.
func matches(rec *domain.GameRecord, criteria domain.FilterCriteria) bool {
	if criteria.MinYear != nil {
		if rec.ReleaseYear == nil || *rec.ReleaseYear < *criteria.MinYear {
			return false
		}
	}

	if criteria.TargetMainGenre != nil && !genreMatches(rec.Genres, *criteria.TargetMainGenre) {
		return false
	}

	if criteria.FreeOnly != nil && rec.Free() != *criteria.FreeOnly {
		return false
	}

	return true
}

// genreMatches applies the genre constraint. The "indie" target is special:
// indie titles rarely lead with that label, so the match accepts the literal
// "Indie" anywhere in the list. Every other target must match the first
// (main) genre exactly.
func genreMatches(genres []string, target string) bool {
	if strings.EqualFold(target, "indie") {
		for _, g := range genres {
			if g == "Indie" {
				return true
			}
		}
		return false
	}
	return len(genres) > 0 && genres[0] == target
}
