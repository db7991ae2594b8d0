// Package dto provides request objects for the snapshot inspection surface.
//
// Requests carry validation tags and convert into the internal query types
// once validated, so the command front ends never build raw queries from
// unchecked input.
package dto

import (
	"github.com/gamescope/gamescope-collector/internal/search"
)

// SearchRequest is a validated snapshot search.
type SearchRequest struct {
	Query     string   `json:"query" validate:"max=256"`
	RunID     string   `json:"run_id" validate:"omitempty,max=64"`
	Genres    []string `json:"genres" validate:"dive,max=64"`
	MainGenre string   `json:"main_genre" validate:"max=64"`
	Free      *bool    `json:"free"`
	MinYear   int      `json:"min_year" validate:"omitempty,gte=1970,lte=2100"`
	MaxYear   int      `json:"max_year" validate:"omitempty,gte=1970,lte=2100"`
	MinOwners int64    `json:"min_owners" validate:"gte=0"`
	Limit     int      `json:"limit" validate:"gte=0,lte=500"`
	Offset    int      `json:"offset" validate:"gte=0"`
	SortBy    string   `json:"sort_by" validate:"omitempty,oneof=relevance name owners reviews year recent"`
	SortOrder string   `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// ToParams converts the request into search parameters, applying defaults
// for anything left unset.
func (r *SearchRequest) ToParams() search.SearchParams {
	params := search.DefaultSearchParams()
	params.Query = r.Query
	params.RunID = r.RunID
	params.Genres = r.Genres
	params.MainGenre = r.MainGenre
	params.FreeOnly = r.Free
	params.MinYear = r.MinYear
	params.MaxYear = r.MaxYear
	params.MinOwners = r.MinOwners
	if r.Limit > 0 {
		params.Limit = r.Limit
	}
	params.Offset = r.Offset
	if r.SortBy != "" {
		params.SortBy = r.SortBy
	}
	if r.SortOrder != "" {
		params.SortOrder = r.SortOrder
	}
	return params
}
