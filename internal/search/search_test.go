package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamescope/gamescope-collector/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *GameIndex {
	t.Helper()

	index, err := NewGameIndex(Options{
		DataPath: t.TempDir(),
		Logger:   nil,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func makeDoc(runID string, appID int64, name string, genres ...string) *GameDocument {
	doc := &GameDocument{
		ID:     DocumentID(runID, appID),
		AppID:  appID,
		RunID:  runID,
		Name:   name,
		Genres: genres,
	}
	if len(genres) > 0 {
		doc.MainGenre = genres[0]
	}
	return doc
}

func TestNewGameIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestGameIndex_IndexDocuments_Batch(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*GameDocument{
		makeDoc("run-1", 1, "Portal", "Puzzle"),
		makeDoc("run-1", 2, "Portal 2", "Puzzle"),
		makeDoc("run-1", 3, "Stardew Valley", "Simulation", "Indie"),
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestGameIndex_Search_Basic(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*GameDocument{
		makeDoc("run-1", 1, "Portal", "Puzzle"),
		makeDoc("run-1", 2, "Portal 2", "Puzzle"),
		makeDoc("run-1", 3, "Stardew Valley", "Simulation", "Indie"),
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()
	params.Query = "Portal"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	require.NotEmpty(t, result.Hits)
	assert.Contains(t, result.Hits[0].Name, "Portal")
	assert.Equal(t, "run-1", result.Hits[0].RunID)
}

func TestGameIndex_Search_GenreFilter(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*GameDocument{
		makeDoc("run-1", 1, "Portal", "Puzzle"),
		makeDoc("run-1", 2, "Hades", "Action", "Indie"),
		makeDoc("run-1", 3, "Stardew Valley", "Simulation", "Indie"),
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()
	params.Genres = []string{"Indie"}
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	for _, hit := range result.Hits {
		assert.Contains(t, hit.Genres, "Indie")
	}
}

func TestGameIndex_Search_RunFilter(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*GameDocument{
		makeDoc("run-1", 1, "Portal", "Puzzle"),
		makeDoc("run-2", 1, "Portal", "Puzzle"),
		makeDoc("run-2", 2, "Hades", "Action"),
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()
	params.RunID = "run-2"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	for _, hit := range result.Hits {
		assert.Equal(t, "run-2", hit.RunID)
	}
}

func TestGameIndex_Search_YearRange(t *testing.T) {
	index := setupTestIndex(t)

	old := makeDoc("run-1", 1, "Half-Life", "Action")
	old.ReleaseYear = 1998
	newer := makeDoc("run-1", 2, "Half-Life Alyx", "Action")
	newer.ReleaseYear = 2020
	require.NoError(t, index.IndexDocuments([]*GameDocument{old, newer}))

	params := DefaultSearchParams()
	params.MinYear = 2015
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, int64(2), result.Hits[0].AppID)
	assert.Equal(t, 2020, result.Hits[0].ReleaseYear)
}

func TestGameIndex_Search_FreeFilter(t *testing.T) {
	index := setupTestIndex(t)

	free := makeDoc("run-1", 1, "Team Fortress 2", "Action")
	free.Free = "true"
	paid := makeDoc("run-1", 2, "Portal 2", "Puzzle")
	paid.Free = "false"
	require.NoError(t, index.IndexDocuments([]*GameDocument{free, paid}))

	isFree := true
	params := DefaultSearchParams()
	params.FreeOnly = &isFree
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, int64(1), result.Hits[0].AppID)
}

func TestGameIndex_Search_SortByOwners(t *testing.T) {
	index := setupTestIndex(t)

	small := makeDoc("run-1", 1, "Niche Game", "Indie")
	small.OwnersProxy = 10_000
	big := makeDoc("run-1", 2, "Big Game", "Action")
	big.OwnersProxy = 5_000_000
	require.NoError(t, index.IndexDocuments([]*GameDocument{small, big}))

	params := DefaultSearchParams()
	params.SortBy = "owners"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 2)
	assert.Equal(t, int64(2), result.Hits[0].AppID)
	assert.Equal(t, int64(5_000_000), result.Hits[0].OwnersProxy)
}

func TestGameIndex_Search_Facets(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*GameDocument{
		makeDoc("run-1", 1, "Hades", "Action", "Indie"),
		makeDoc("run-1", 2, "Celeste", "Platformer", "Indie"),
		makeDoc("run-1", 3, "Doom", "Action"),
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	require.NotEmpty(t, result.Facets.Genres)
	counts := map[string]int{}
	for _, f := range result.Facets.Genres {
		counts[f.Value] = f.Count
	}
	assert.Equal(t, 2, counts["Indie"])
	assert.Equal(t, 2, counts["Action"])
}

func TestGameIndex_DeleteRun(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*GameDocument{
		makeDoc("run-1", 1, "Portal", "Puzzle"),
		makeDoc("run-1", 2, "Hades", "Action"),
		makeDoc("run-2", 3, "Celeste", "Indie"),
	}
	require.NoError(t, index.IndexDocuments(docs))

	require.NoError(t, index.DeleteRun([]string{DocumentID("run-1", 1), DocumentID("run-1", 2)}))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestRecordToDocument(t *testing.T) {
	year := 2020
	free := true
	owners := int64(1_500_000)
	reviews := int64(300)
	rec := domain.GameRecord{
		AppID:        440,
		Name:         "Team Fortress 2",
		ReleaseYear:  &year,
		IsFree:       &free,
		Genres:       []string{"Action", "Free To Play"},
		TotalReviews: &reviews,
		OwnersProxy:  &owners,
		SnapshotTime: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	doc := RecordToDocument("run-9", &rec, "A team-based shooter.")

	assert.Equal(t, "run-9/440", doc.ID)
	assert.Equal(t, "Action", doc.MainGenre)
	assert.Equal(t, "true", doc.Free)
	assert.Equal(t, 2020, doc.ReleaseYear)
	assert.Equal(t, owners, doc.OwnersProxy)
	assert.Equal(t, rec.SnapshotTime.UnixMilli(), doc.SnapshotAt)

	m := doc.ToMap()
	assert.Equal(t, "440", m["app_id"])
	_, hasDesc := m["description"]
	assert.True(t, hasDesc)
}

func TestRecordToDocumentSparse(t *testing.T) {
	rec := domain.GameRecord{AppID: 7, Name: "Mystery"}

	doc := RecordToDocument("run-9", &rec, "")
	m := doc.ToMap()

	assert.Empty(t, doc.Free)
	for _, key := range []string{"description", "main_genre", "genres", "free", "release_year", "owners_proxy"} {
		_, ok := m[key]
		assert.False(t, ok, "key %s should be absent", key)
	}
}
