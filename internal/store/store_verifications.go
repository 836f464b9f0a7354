package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"revoice/internal/services"
)

// AppendVerification adds a round-trip check result to an utterance's
// append-only log. Scores outside [0,1] are rejected before they reach the
// database constraint.
func (s *Store) AppendVerification(ctx context.Context, utteranceID int64, transcript string, score float64, at time.Time) (*VerificationRecord, error) {
	if score < 0 || score > 1 {
		return nil, services.Wrap(services.ErrValidation, "store", "append verification",
			fmt.Sprintf("score %v outside [0,1]", score), nil)
	}
	if _, err := s.GetUtterance(ctx, utteranceID); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO verification_records (utterance_id, transcript, score, created_at)
         VALUES (?, ?, ?, ?)`,
		utteranceID, transcript, score, formatTime(at),
	)
	if err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, utterance_id, transcript, score, created_at FROM verification_records WHERE id = ?`, id)
	return scanVerification(row)
}

// LatestVerification returns the current verification record for an
// utterance, or nil when none exists. Equal timestamps are broken by the
// higher record id, so the read is deterministic.
func (s *Store) LatestVerification(ctx context.Context, utteranceID int64) (*VerificationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, utterance_id, transcript, score, created_at
         FROM verification_records
         WHERE utterance_id = ?
         ORDER BY created_at DESC, id DESC
         LIMIT 1`, utteranceID)
	record, err := scanVerification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// ListVerifications returns an utterance's full verification history,
// oldest first.
func (s *Store) ListVerifications(ctx context.Context, utteranceID int64) ([]*VerificationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, utterance_id, transcript, score, created_at
         FROM verification_records
         WHERE utterance_id = ?
         ORDER BY created_at, id`, utteranceID)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var records []*VerificationRecord
	for rows.Next() {
		var (
			record     VerificationRecord
			createdRaw string
		)
		if err := rows.Scan(&record.ID, &record.UtteranceID, &record.Transcript, &record.Score, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		record.CreatedAt = parseTime(createdRaw)
		records = append(records, &record)
	}
	return records, rows.Err()
}

func scanVerification(row *sql.Row) (*VerificationRecord, error) {
	var (
		record     VerificationRecord
		createdRaw string
	)
	if err := row.Scan(&record.ID, &record.UtteranceID, &record.Transcript, &record.Score, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan verification: %w", err)
	}
	record.CreatedAt = parseTime(createdRaw)
	return &record, nil
}
