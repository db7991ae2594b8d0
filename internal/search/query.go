package search

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // User's search query
	RunID string // Restrict to one snapshot (empty = all)

	// Filters
	Genres    []string // Filter by exact genre labels
	MainGenre string   // Filter by exact main genre
	FreeOnly  *bool    // Filter by price model
	MinYear   int      // Minimum release year
	MaxYear   int      // Maximum release year
	MinOwners int64    // Minimum ownership proxy

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "name", "owners", "reviews", "year", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool     // Include facet counts in results
	FacetFields   []string // Which fields to facet on
	Highlight     bool     // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		FacetFields:   []string{"genres", "free"},
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitzero"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID           string            `json:"id"`
	AppID        int64             `json:"app_id"`
	RunID        string            `json:"run_id"`
	Score        float64           `json:"score"`
	Name         string            `json:"name"`
	MainGenre    string            `json:"main_genre,omitzero"`
	Genres       []string          `json:"genres,omitzero"`
	ReleaseYear  int               `json:"release_year,omitzero"`
	TotalReviews int64             `json:"total_reviews,omitzero"`
	OwnersProxy  int64             `json:"owners_proxy,omitzero"`
	Highlights   map[string]string `json:"highlights,omitzero"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Genres []FacetCount `json:"genres,omitzero"`
	Free   []FacetCount `json:"free,omitzero"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *GameIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		addFacets(searchRequest, params)
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
		searchRequest.Highlight.AddField("description")
	}

	// Request stored fields
	searchRequest.Fields = []string{
		"app_id", "run_id", "name", "main_genre", "genres",
		"release_year", "total_reviews", "owners_proxy",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		// Extract stored fields
		if v, ok := hit.Fields["app_id"].(string); ok {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				searchHit.AppID = id
			}
		}
		if v, ok := hit.Fields["run_id"].(string); ok {
			searchHit.RunID = v
		}
		if v, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = v
		}
		if v, ok := hit.Fields["main_genre"].(string); ok {
			searchHit.MainGenre = v
		}
		switch g := hit.Fields["genres"].(type) {
		case string:
			searchHit.Genres = []string{g}
		case []interface{}:
			for _, item := range g {
				if label, ok := item.(string); ok {
					searchHit.Genres = append(searchHit.Genres, label)
				}
			}
		}
		if v, ok := hit.Fields["release_year"].(float64); ok {
			searchHit.ReleaseYear = int(v)
		}
		if v, ok := hit.Fields["total_reviews"].(float64); ok {
			searchHit.TotalReviews = int64(v)
		}
		if v, ok := hit.Fields["owners_proxy"].(float64); ok {
			searchHit.OwnersProxy = int64(v)
		}

		// Extract highlights
		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query: name carries the highest boost, fuzzy and prefix
	// variants tolerate typos and support autocomplete, and description
	// matches rank lowest.
	if params.Query != "" {
		textQueries := []query.Query{}

		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Run filter
	if params.RunID != "" {
		rq := bleve.NewTermQuery(params.RunID)
		rq.SetField("run_id")
		queries = append(queries, rq)
	}

	// Genre filter (exact match, OR across labels)
	if len(params.Genres) > 0 {
		genreQueries := make([]query.Query, len(params.Genres))
		for i, label := range params.Genres {
			gq := bleve.NewTermQuery(label)
			gq.SetField("genres")
			genreQueries[i] = gq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(genreQueries...))
	}

	// Main genre filter
	if params.MainGenre != "" {
		mq := bleve.NewTermQuery(params.MainGenre)
		mq.SetField("main_genre")
		queries = append(queries, mq)
	}

	// Price model filter
	if params.FreeOnly != nil {
		fq := bleve.NewTermQuery(strconv.FormatBool(*params.FreeOnly))
		fq.SetField("free")
		queries = append(queries, fq)
	}

	// Year range filter
	if params.MinYear > 0 || params.MaxYear > 0 {
		min := float64(params.MinYear)
		max := float64(params.MaxYear)
		if params.MaxYear == 0 {
			max = 3000 // Far future
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("release_year")
		queries = append(queries, rangeQuery)
	}

	// Ownership floor
	if params.MinOwners > 0 {
		min := float64(params.MinOwners)
		max := math.MaxFloat64
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("owners_proxy")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "name":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-name"})
		} else {
			req.SortBy([]string{"name"})
		}
	case "owners":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"owners_proxy", "total_reviews"})
		} else {
			req.SortBy([]string{"-owners_proxy", "-total_reviews"})
		}
	case "reviews":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"total_reviews"})
		} else {
			req.SortBy([]string{"-total_reviews"})
		}
	case "year":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"release_year"})
		} else {
			req.SortBy([]string{"-release_year"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"snapshot_at"})
		} else {
			req.SortBy([]string{"-snapshot_at"})
		}
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// addFacets configures facet requests.
func addFacets(req *bleve.SearchRequest, params SearchParams) {
	for _, field := range params.FacetFields {
		facetReq := bleve.NewFacetRequest(field, 20) // Top 20 values
		req.AddFacet(field, facetReq)
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if genreFacet, ok := result.Facets["genres"]; ok {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if freeFacet, ok := result.Facets["free"]; ok {
		for _, term := range freeFacet.Terms.Terms() {
			facets.Free = append(facets.Free, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
