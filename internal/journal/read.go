package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ReadRun returns a run and its entries ordered by seq.
// Returns ErrRunNotFound for an unknown ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, []Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, script, started_at, finished_at, status, final_text
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: %w", id, err)
	}

	entries, err := s.readEntries(ctx, id)
	if err != nil {
		return Run{}, nil, err
	}
	return run, entries, nil
}

// ListRuns returns all runs, most recent first.
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, script, started_at, finished_at, status, final_text
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the most recently started run.
// Returns ErrRunNotFound for an empty journal.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, script, started_at, finished_at, status, final_text
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY ASC
		LIMIT 1
	`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

func (s *Store) readEntries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, at_ns, kind, action, action_index, text, dropped, mark
		FROM events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var at, index int64
		if err := rows.Scan(&e.RunID, &e.Seq, &at, &e.Kind, &e.Action, &index, &e.Text, &e.Dropped, &e.Mark); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.At = time.Duration(at)
		e.Index = uint64(index)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var started int64
	var finished sql.NullInt64
	if err := row.Scan(&run.ID, &run.Script, &started, &finished, &run.Status, &run.FinalText); err != nil {
		return Run{}, err
	}
	run.StartedAt = time.UnixMilli(started).UTC()
	if finished.Valid {
		run.FinishedAt = time.UnixMilli(finished.Int64).UTC()
	}
	return run, nil
}
