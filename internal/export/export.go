// Package export persists collection runs as JSON snapshots on disk and
// reads them back for cleaning, indexing, and inspection.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gamescope/gamescope-collector/internal/domain"
	"github.com/gamescope/gamescope-collector/internal/errors"
)

const snapshotExt = ".json"

// Snapshot is one collection run as written to disk. Records carry the raw
// upstream payloads so a snapshot is a faithful capture, not a projection.
type Snapshot struct {
	RunID     string              `json:"run_id"`
	CreatedAt time.Time           `json:"created_at"`
	Kind      string              `json:"kind"` // "sample" or "raw"
	Mode      string              `json:"mode,omitzero"`
	TargetN   int                 `json:"target_n,omitzero"`
	Examined  int                 `json:"examined"`
	Records   []domain.GameRecord `json:"records"`
}

// Store reads and writes snapshots under a single directory.
type Store struct {
	dir string
}

// NewStore creates the snapshot directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the on-disk location for a run's snapshot.
func (s *Store) Path(runID string) string {
	return filepath.Join(s.dir, runID+snapshotExt)
}

// Write persists a snapshot. The write goes through a temp file and rename
// so a crashed run never leaves a truncated snapshot behind.
func (s *Store) Write(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := s.Path(snap.RunID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot by run ID.
func (s *Store) Read(runID string) (*Snapshot, error) {
	data, err := os.ReadFile(s.Path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("snapshot %s not found", runID))
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", runID, err)
	}
	return &snap, nil
}

// List returns the run IDs of all stored snapshots, newest first by
// creation time encoded in the ID when present, otherwise lexicographic.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, snapshotExt))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}
