// Package service orchestrates collection runs end to end: sampling,
// snapshot persistence, the run ledger, cleaning, and search indexing.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gamescope/gamescope-collector/internal/clean"
	"github.com/gamescope/gamescope-collector/internal/domain"
	"github.com/gamescope/gamescope-collector/internal/errors"
	"github.com/gamescope/gamescope-collector/internal/export"
	"github.com/gamescope/gamescope-collector/internal/id"
	"github.com/gamescope/gamescope-collector/internal/logger"
	"github.com/gamescope/gamescope-collector/internal/sampler"
	"github.com/gamescope/gamescope-collector/internal/search"
	"github.com/gamescope/gamescope-collector/internal/store"
)

// RunService drives collection runs and owns their artifacts: the snapshot
// file, the ledger entry, and the search documents.
type RunService struct {
	collector *sampler.Collector
	snapshots *export.Store
	ledger    *store.Store
	index     *search.GameIndex
	exportDir string
	logger    *logger.Logger
}

// NewRunService creates a run service.
func NewRunService(
	collector *sampler.Collector,
	snapshots *export.Store,
	ledger *store.Store,
	index *search.GameIndex,
	exportDir string,
	log *logger.Logger,
) *RunService {
	return &RunService{
		collector: collector,
		snapshots: snapshots,
		ledger:    ledger,
		index:     index,
		exportDir: exportDir,
		logger:    log,
	}
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunID        string
	Selected     int
	Examined     int
	SnapshotPath string
}

// RunSample executes a filtered sampling run from a raw configuration and
// persists all artifacts.
func (s *RunService) RunSample(ctx context.Context, raw sampler.RawConfig, defaultTargetN int) (*RunSummary, error) {
	cfg, criteria, err := sampler.Normalize(raw, defaultTargetN)
	if err != nil {
		return nil, err
	}

	res, err := s.collector.SampleFrom(ctx, cfg, criteria)
	if err != nil {
		return nil, err
	}

	runID := id.NewRunID()
	now := time.Now().UTC()

	run := store.NewRunFromCriteria(runID, now, cfg, criteria)
	return s.finishRun(ctx, run, res, now)
}

// RunRaw executes an unfiltered collection over up to limit catalog entries
// and persists all artifacts.
func (s *RunService) RunRaw(ctx context.Context, limit int) (*RunSummary, error) {
	res, err := s.collector.CollectRaw(ctx, limit)
	if err != nil {
		return nil, err
	}

	runID := id.NewRunID()
	now := time.Now().UTC()

	run := &store.Run{
		ID:            runID,
		CreatedAt:     now,
		Kind:          "raw",
		MaxCandidates: limit,
	}
	return s.finishRun(ctx, run, res, now)
}

// finishRun persists the snapshot, the ledger entry, and the search
// documents for one completed collection.
func (s *RunService) finishRun(ctx context.Context, run *store.Run, res *sampler.Result, now time.Time) (*RunSummary, error) {
	snap := &export.Snapshot{
		RunID:     run.ID,
		CreatedAt: now,
		Kind:      run.Kind,
		Mode:      run.Mode,
		TargetN:   run.TargetN,
		Examined:  res.Examined,
		Records:   res.Records,
	}
	if err := s.snapshots.Write(snap); err != nil {
		return nil, err
	}

	run.Examined = res.Examined
	run.Selected = len(res.Records)
	run.SnapshotPath = s.snapshots.Path(run.ID)

	items := make([]store.Item, len(res.Outcomes))
	for i, o := range res.Outcomes {
		items[i] = store.Item{AppID: o.AppID, Status: o.Status, Reason: o.Reason}
	}
	if err := s.ledger.CreateRun(ctx, run, items); err != nil {
		return nil, err
	}

	if err := s.indexRecords(run.ID, res.Records); err != nil {
		// The run itself succeeded; a stale index is recoverable via Reindex.
		s.logger.Warn("indexing run failed", "run_id", run.ID, "error", err)
	}

	s.logger.Info("run finished",
		"run_id", run.ID,
		"kind", run.Kind,
		"selected", run.Selected,
		"examined", run.Examined,
	)

	return &RunSummary{
		RunID:        run.ID,
		Selected:     run.Selected,
		Examined:     run.Examined,
		SnapshotPath: run.SnapshotPath,
	}, nil
}

func (s *RunService) indexRecords(runID string, records []domain.GameRecord) error {
	rows := clean.Rows(records)
	docs := make([]*search.GameDocument, len(records))
	for i := range records {
		docs[i] = search.RecordToDocument(runID, &records[i], rows[i].Description)
	}
	return s.index.IndexDocuments(docs)
}

// ListRuns returns all ledger entries, newest first.
func (s *RunService) ListRuns(ctx context.Context) ([]*store.Run, error) {
	return s.ledger.ListRuns(ctx)
}

// GetRun returns one ledger entry.
func (s *RunService) GetRun(ctx context.Context, runID string) (*store.Run, error) {
	return s.ledger.GetRun(ctx, runID)
}

// Outcomes returns the per-app outcomes of a run, optionally filtered by
// status.
func (s *RunService) Outcomes(ctx context.Context, runID, status string) ([]store.Item, error) {
	return s.ledger.Items(ctx, runID, status)
}

// ExportCSV cleans a run's snapshot and writes the derived table to the
// export directory, returning the file path.
func (s *RunService) ExportCSV(ctx context.Context, runID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	snap, err := s.snapshots.Read(runID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(s.exportDir, runID+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := clean.WriteCSV(f, clean.Rows(snap.Records)); err != nil {
		return "", err
	}

	s.logger.Info("exported cleaned table", "run_id", runID, "path", path, "rows", len(snap.Records))
	return path, nil
}

// Search queries the game index.
func (s *RunService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// Reindex rebuilds the search index from all stored snapshots.
func (s *RunService) Reindex(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return err
	}

	ids, err := s.snapshots.List()
	if err != nil {
		return err
	}

	for _, runID := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap, err := s.snapshots.Read(runID)
		if err != nil {
			return err
		}
		if err := s.indexRecords(runID, snap.Records); err != nil {
			return errors.Wrapf(err, errors.CodeInternal, "reindex run %s", runID)
		}
	}

	s.logger.Info("search index rebuilt", "runs", len(ids))
	return nil
}

// DeleteRun removes a run's ledger entry, snapshot, and index documents.
func (s *RunService) DeleteRun(ctx context.Context, runID string) error {
	snap, err := s.snapshots.Read(runID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}

	if err := s.ledger.DeleteRun(ctx, runID); err != nil {
		return err
	}

	if snap != nil {
		ids := make([]string, len(snap.Records))
		for i := range snap.Records {
			ids[i] = search.DocumentID(runID, snap.Records[i].AppID)
		}
		if err := s.index.DeleteRun(ids); err != nil {
			s.logger.Warn("removing run from index failed", "run_id", runID, "error", err)
		}
		if err := os.Remove(s.snapshots.Path(runID)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot: %w", err)
		}
	}

	s.logger.Info("run deleted", "run_id", runID)
	return nil
}
