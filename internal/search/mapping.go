package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for game documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on game names with English stemming
//  2. Exact keyword matching for genre and run filters
//  3. Numeric range queries for year, reviews, and ownership
//  4. Term vectors on name for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name field - primary search target
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Description - searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	appIDFieldMapping := bleve.NewTextFieldMapping()
	appIDFieldMapping.Analyzer = keyword.Name
	appIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("app_id", appIDFieldMapping)

	// Run ID - for restricting a search to one snapshot
	runFieldMapping := bleve.NewTextFieldMapping()
	runFieldMapping.Analyzer = keyword.Name
	runFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("run_id", runFieldMapping)

	// Genres - keyword analyzer keeps multi-word labels intact
	// (e.g., "Massively Multiplayer")
	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = keyword.Name
	genresFieldMapping.Store = true
	genresFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	mainGenreFieldMapping := bleve.NewTextFieldMapping()
	mainGenreFieldMapping.Analyzer = keyword.Name
	mainGenreFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("main_genre", mainGenreFieldMapping)

	freeFieldMapping := bleve.NewTextFieldMapping()
	freeFieldMapping.Analyzer = keyword.Name
	freeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("free", freeFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("release_year", yearFieldMapping)

	reviewsFieldMapping := bleve.NewNumericFieldMapping()
	reviewsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("total_reviews", reviewsFieldMapping)

	ownersFieldMapping := bleve.NewNumericFieldMapping()
	ownersFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("owners_proxy", ownersFieldMapping)

	snapshotAtFieldMapping := bleve.NewNumericFieldMapping()
	snapshotAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("snapshot_at", snapshotAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
