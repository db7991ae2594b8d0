// Package store provides SQLite-backed persistence for the run ledger:
// every collection run, its parameters, and its per-app outcomes.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gamescope/gamescope-collector/internal/domain"
	"github.com/gamescope/gamescope-collector/internal/errors"
	"github.com/gamescope/gamescope-collector/internal/logger"
)

//go:embed schema.sql
var schemaSQL string

// Run is one ledger entry.
type Run struct {
	ID            string
	CreatedAt     time.Time
	Kind          string // "sample" or "raw"
	Mode          string
	TargetN       int
	MaxCandidates int
	MinYear       *int
	Genre         *string
	FreeOnly      *bool
	Examined      int
	Selected      int
	SnapshotPath  string
}

// Item is one per-app outcome within a run.
type Item struct {
	AppID  int64
	Status string
	Reason string
}

// Store provides SQLite-backed persistence for the run ledger.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	// Run schema migration.
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: log}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records a run and its per-app outcomes in one transaction.
func (s *Store) CreateRun(ctx context.Context, run *Run, items []Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, kind, mode, target_n, max_candidates,
			min_year, genre, free_only, examined, selected, snapshot_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.CreatedAt),
		run.Kind,
		run.Mode,
		run.TargetN,
		run.MaxCandidates,
		nullableInt(run.MinYear),
		nullableString(run.Genre),
		nullableBool(run.FreeOnly),
		run.Examined,
		run.Selected,
		run.SnapshotPath,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_items (run_id, app_id, status, reason) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i := range items {
		if _, err := stmt.ExecContext(ctx, run.ID, items[i].AppID, items[i].Status, items[i].Reason); err != nil {
			return fmt.Errorf("insert item %d: %w", items[i].AppID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	s.logger.Debug("run recorded", "run_id", run.ID, "items", len(items))
	return nil
}

// runColumns is the ordered list of columns selected in run queries.
// Must match the scan order in scanRun.
const runColumns = `id, created_at, kind, mode, target_n, max_candidates,
	min_year, genre, free_only, examined, selected, snapshot_path`

// scanRun scans a sql.Row (or sql.Rows via its Scan method) into a Run.
func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		r         Run
		createdAt string
		mode      sql.NullString
		minYear   sql.NullInt64
		genre     sql.NullString
		freeOnly  sql.NullInt64
	)

	err := scanner.Scan(
		&r.ID,
		&createdAt,
		&r.Kind,
		&mode,
		&r.TargetN,
		&r.MaxCandidates,
		&minYear,
		&genre,
		&freeOnly,
		&r.Examined,
		&r.Selected,
		&r.SnapshotPath,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	if mode.Valid {
		r.Mode = mode.String
	}
	if minYear.Valid {
		y := int(minYear.Int64)
		r.MinYear = &y
	}
	if genre.Valid {
		r.Genre = &genre.String
	}
	if freeOnly.Valid {
		b := freeOnly.Int64 != 0
		r.FreeOnly = &b
	}

	return &r, nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(fmt.Sprintf("run %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Items returns the per-app outcomes of a run, optionally filtered by
// status (empty matches all).
func (s *Store) Items(ctx context.Context, runID, status string) ([]Item, error) {
	query := `SELECT app_id, status, reason FROM run_items WHERE run_id = ?`
	args := []any{runID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY app_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list run items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.AppID, &it.Status, &it.Reason); err != nil {
			return nil, fmt.Errorf("scan run item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DeleteRun removes a run and its items.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return errors.NotFound(fmt.Sprintf("run %s not found", id))
	}
	return nil
}

// NewRunFromCriteria builds a ledger entry from sampling parameters.
func NewRunFromCriteria(id string, createdAt time.Time, cfg domain.SamplingConfig, criteria domain.FilterCriteria) *Run {
	return &Run{
		ID:            id,
		CreatedAt:     createdAt,
		Kind:          "sample",
		Mode:          string(cfg.Mode),
		TargetN:       cfg.TargetN,
		MaxCandidates: cfg.MaxCandidates,
		MinYear:       criteria.MinYear,
		Genre:         criteria.TargetMainGenre,
		FreeOnly:      criteria.FreeOnly,
	}
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a RFC3339Nano string back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// nullableString returns a sql.NullString from a *string.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullableInt returns a sql.NullInt64 from a *int.
func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// nullableBool returns a sql.NullInt64 from a *bool.
func nullableBool(v *bool) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	n := int64(0)
	if *v {
		n = 1
	}
	return sql.NullInt64{Int64: n, Valid: true}
}
