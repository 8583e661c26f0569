package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusOK    = "ok"    // order computed
	StatusCycle = "cycle" // aborted on a cycle witness
)

// ErrRunNotFound reports a missing run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded ordering run.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
	Err       string    `json:"error,omitempty"`
	Files     []string  `json:"files"`           // input listing, caller order
	Order     []string  `json:"order,omitempty"` // computed order; empty on cycle
}

// NewRunID returns a fresh UUIDv7 run ID.
//
// UUIDv7 embeds a timestamp in the most significant bits, so run IDs sort
// by creation time.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RecordRun persists a run, its input listing and its computed order.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("recording run: empty run ID")
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, status, error) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.Status, run.Err,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	if err := insertFiles(ctx, tx, run.ID, "input", run.Files); err != nil {
		return err
	}
	if err := insertFiles(ctx, tx, run.ID, "order", run.Order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return nil
}

func insertFiles(ctx context.Context, tx *sql.Tx, runID, kind string, files []string) error {
	for pos, file := range files {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_files (run_id, kind, position, file) VALUES (?, ?, ?, ?)`,
			runID, kind, pos, file,
		)
		if err != nil {
			return fmt.Errorf("inserting %s file %d for run %s: %w", kind, pos, runID, err)
		}
	}
	return nil
}

// GetRun loads one run with its file listings.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	run := Run{ID: id}

	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, status, error FROM runs WHERE id = ?`, id,
	).Scan(&createdAt, &run.Status, &run.Err)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at for run %s: %w", id, err)
	}

	if run.Files, err = s.loadFiles(ctx, id, "input"); err != nil {
		return Run{}, err
	}
	if run.Order, err = s.loadFiles(ctx, id, "order"); err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) loadFiles(ctx context.Context, runID, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file FROM run_files WHERE run_id = ? AND kind = ? ORDER BY position`,
		runID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s files for run %s: %w", kind, runID, err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, fmt.Errorf("scanning %s file for run %s: %w", kind, runID, err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
