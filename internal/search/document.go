// Package search provides full-text search over collected game snapshots
// using Bleve: name and description search with genre faceting and
// numeric range filters on year, reviews, and ownership.
package search

import (
	"strconv"

	"github.com/gamescope/gamescope-collector/internal/domain"
)

// GameDocument is the document structure for the Bleve index. One game may
// appear in several runs; the document ID is run-scoped so snapshots stay
// independently searchable.
type GameDocument struct {
	ID    string `json:"id"` // "<run_id>/<app_id>"
	AppID int64  `json:"app_id"`
	RunID string `json:"run_id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// MainGenre is the first genre; Genres holds the full list for faceting.
	MainGenre string   `json:"main_genre,omitempty"`
	Genres    []string `json:"genres,omitempty"`

	// Free is a keyword field ("true"/"false"); absent when the price model
	// is unknown upstream.
	Free string `json:"free,omitempty"`

	// Numeric fields for range queries and sorting.
	ReleaseYear  int   `json:"release_year,omitempty"`
	TotalReviews int64 `json:"total_reviews,omitempty"`
	OwnersProxy  int64 `json:"owners_proxy,omitempty"`

	// SnapshotAt is the capture time in Unix millis, for recency sorting.
	SnapshotAt int64 `json:"snapshot_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the
// mapping uses lowercase names, so we convert explicitly.
func (d *GameDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"app_id":      strconv.FormatInt(d.AppID, 10),
		"run_id":      d.RunID,
		"name":        d.Name,
		"snapshot_at": d.SnapshotAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.MainGenre != "" {
		m["main_genre"] = d.MainGenre
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if d.Free != "" {
		m["free"] = d.Free
	}
	if d.ReleaseYear > 0 {
		m["release_year"] = d.ReleaseYear
	}
	if d.TotalReviews > 0 {
		m["total_reviews"] = d.TotalReviews
	}
	if d.OwnersProxy > 0 {
		m["owners_proxy"] = d.OwnersProxy
	}

	return m
}

// DocumentID builds the run-scoped document ID for a record.
func DocumentID(runID string, appID int64) string {
	return runID + "/" + strconv.FormatInt(appID, 10)
}

// RecordToDocument converts a snapshot record to a search document.
// description is the cleaned plain-text description; the raw payload is
// not indexed.
func RecordToDocument(runID string, rec *domain.GameRecord, description string) *GameDocument {
	doc := &GameDocument{
		ID:          DocumentID(runID, rec.AppID),
		AppID:       rec.AppID,
		RunID:       runID,
		Name:        rec.Name,
		Description: description,
		Genres:      rec.Genres,
		SnapshotAt:  rec.SnapshotTime.UnixMilli(),
	}

	if len(rec.Genres) > 0 {
		doc.MainGenre = rec.Genres[0]
	}
	if rec.IsFree != nil {
		doc.Free = strconv.FormatBool(*rec.IsFree)
	}
	if rec.ReleaseYear != nil {
		doc.ReleaseYear = *rec.ReleaseYear
	}
	if rec.TotalReviews != nil {
		doc.TotalReviews = *rec.TotalReviews
	}
	if rec.OwnersProxy != nil {
		doc.OwnersProxy = *rec.OwnersProxy
	}

	return doc
}
