package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RunRecord is one row of the runs table.
type RunRecord struct {
	Token      string
	Party      string
	Role       string
	Status     string
	StartedAt  string
	FinishedAt string
}

// TransitionRecord is one row of the transitions table.
type TransitionRecord struct {
	Seq       int
	FromState string
	ToState   string
	At        string
}

// ReceiptRecord is one row of the receipts table.
type ReceiptRecord struct {
	Party      string
	Rows       int
	ReceivedAt string
}

// GetRun returns the run row for token, or sql.ErrNoRows.
func (s *Store) GetRun(ctx context.Context, token string) (RunRecord, error) {
	var r RunRecord
	var finished sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT token, party, role, status, started_at, finished_at
		FROM runs WHERE token = ?
	`, token).Scan(&r.Token, &r.Party, &r.Role, &r.Status, &r.StartedAt, &finished)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run: %w", err)
	}
	r.FinishedAt = finished.String
	return r, nil
}

// ListTransitions returns a run's transitions in seq order.
func (s *Store) ListTransitions(ctx context.Context, token string) ([]TransitionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, from_state, to_state, at
		FROM transitions WHERE run_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var out []TransitionRecord
	for rows.Next() {
		var t TransitionRecord
		if err := rows.Scan(&t.Seq, &t.FromState, &t.ToState, &t.At); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListReceipts returns a coordinator run's contribution receipts in
// receipt order.
func (s *Store) ListReceipts(ctx context.Context, token string) ([]ReceiptRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT party, rows, received_at
		FROM receipts WHERE run_token = ?
		ORDER BY received_at ASC, party ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []ReceiptRecord
	for rows.Next() {
		var r ReceiptRecord
		if err := rows.Scan(&r.Party, &r.Rows, &r.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
