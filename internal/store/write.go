package store

import (
	"context"
	"fmt"
	"time"
)

// Run statuses recorded in the log.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusFailed   = "failed"
)

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// RecordStart inserts the run row. Idempotent on the run token so a
// restarted logger does not error out the run.
func (s *Store) RecordStart(ctx context.Context, token, party, role string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, party, role, status, started_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, party, role, StatusRunning, now())
	if err != nil {
		return fmt.Errorf("record start: %w", err)
	}
	return nil
}

// RecordTransition appends one state transition for a run. seq is the
// caller's monotonic transition counter within the run.
func (s *Store) RecordTransition(ctx context.Context, token string, seq int, from, to string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transitions (run_token, seq, from_state, to_state, at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_token, seq) DO NOTHING
	`, token, seq, from, to, now())
	if err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	return nil
}

// RecordReceipt logs a contribution receipt on a coordinator run. A
// duplicate receipt from the same party is silently ignored, mirroring the
// relay's keep-first rule.
func (s *Store) RecordReceipt(ctx context.Context, token, party string, rows int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO receipts (run_token, party, rows, received_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_token, party) DO NOTHING
	`, token, party, rows, now())
	if err != nil {
		return fmt.Errorf("record receipt: %w", err)
	}
	return nil
}

// RecordFinish marks the run finished or failed.
func (s *Store) RecordFinish(ctx context.Context, token string, failed bool) error {
	status := StatusFinished
	if failed {
		status = StatusFailed
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, finished_at = ? WHERE token = ?
	`, status, now(), token)
	if err != nil {
		return fmt.Errorf("record finish: %w", err)
	}
	return nil
}
