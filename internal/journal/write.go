package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BeginRun inserts a run with status "running".
// Uses ON CONFLICT(id) DO NOTHING: beginning an existing run is a no-op.
func (s *Store) BeginRun(ctx context.Context, id, script string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, script, started_at, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, script, startedAt.UnixMilli(), StatusRunning)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run. Returns ErrRunNotFound when the
// run was never begun.
func (s *Store) FinishRun(ctx context.Context, id, status, finalText string, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, final_text = ?, finished_at = ?
		WHERE id = ?
	`, status, finalText, nullMillis(finishedAt), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// WriteEvents appends entries in one transaction.
// Uses ON CONFLICT(run_id, seq) DO NOTHING: rewriting an entry is ignored.
//
// Note: each entry's run must exist (foreign key constraint).
func (s *Store) WriteEvents(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write events: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
		(run_id, seq, at_ns, kind, action, action_index, text, dropped, mark)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write events: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.RunID,
			e.Seq,
			int64(e.At),
			e.Kind,
			e.Action,
			int64(e.Index),
			e.Text,
			e.Dropped,
			e.Mark,
		); err != nil {
			return fmt.Errorf("write events: seq %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write events: commit: %w", err)
	}
	return nil
}

func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}
