package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamescope/gamescope-collector/internal/domain"
	apperrors "github.com/gamescope/gamescope-collector/internal/errors"
)

func testSnapshot(runID string) *Snapshot {
	year := 2020
	reviews := int64(100)
	return &Snapshot{
		RunID:     runID,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Kind:      "sample",
		Mode:      "random",
		TargetN:   10,
		Examined:  25,
		Records: []domain.GameRecord{
			{
				AppID:        440,
				Name:         "Team Fortress 2",
				ReleaseYear:  &year,
				Genres:       []string{"Action"},
				TotalReviews: &reviews,
				SnapshotTime: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
				RawDetails:   []byte(`{"name":"Team Fortress 2"}`),
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snap := testSnapshot("run-abc")
	require.NoError(t, store.Write(snap))

	got, err := store.Read("run-abc")
	require.NoError(t, err)

	assert.Equal(t, snap.RunID, got.RunID)
	assert.Equal(t, snap.Kind, got.Kind)
	assert.Equal(t, snap.Examined, got.Examined)
	require.Len(t, got.Records, 1)
	assert.Equal(t, int64(440), got.Records[0].AppID)
	assert.Equal(t, 2020, *got.Records[0].ReleaseYear)
	assert.JSONEq(t, `{"name":"Team Fortress 2"}`, string(got.Records[0].RawDetails))
	// Nullable fields absent upstream stay null on disk.
	assert.Nil(t, got.Records[0].OwnersProxy)
}

func TestStoreReadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read("run-nope")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	for _, id := range []string{"run-a", "run-c", "run-b"} {
		snap := testSnapshot(id)
		require.NoError(t, store.Write(snap))
	}
	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	ids, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"run-c", "run-b", "run-a"}, ids)
}

func TestStoreWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write(testSnapshot("run-x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run-x.json", entries[0].Name())
}
