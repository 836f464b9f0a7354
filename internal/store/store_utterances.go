package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"revoice/internal/services"
)

const utteranceColumns = "id, program_id, speaker_id, ordinal, text, audio_path, timecode, started_at, completed_at"

// AppendUtterance inserts a new utterance at the given ordinal position.
// The speaker must belong to the program's project; ordinals are unique
// within a program.
func (s *Store) AppendUtterance(ctx context.Context, programID, speakerID int64, ordinal int, text, timecode string, startedAt time.Time) (*Utterance, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "append utterance", "text must not be empty", nil)
	}
	program, err := s.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	speaker, err := s.GetSpeaker(ctx, speakerID)
	if err != nil {
		return nil, err
	}
	if speaker.ProjectID != program.ProjectID {
		return nil, services.Wrap(services.ErrValidation, "store", "append utterance",
			fmt.Sprintf("speaker %d belongs to project %d, not project %d", speakerID, speaker.ProjectID, program.ProjectID), nil)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO utterances (program_id, speaker_id, ordinal, text, timecode, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		programID, speakerID, ordinal, text, timecode, formatTime(startedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert utterance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetUtterance(ctx, id)
}

// GetUtterance fetches an utterance by id.
func (s *Store) GetUtterance(ctx context.Context, id int64) (*Utterance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+utteranceColumns+` FROM utterances WHERE id = ?`, id)
	return scanUtterance(row, fmt.Sprintf("utterance %d", id))
}

// GetUtteranceByOrdinal fetches an utterance by its position within a program.
func (s *Store) GetUtteranceByOrdinal(ctx context.Context, programID int64, ordinal int) (*Utterance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+utteranceColumns+` FROM utterances WHERE program_id = ? AND ordinal = ?`,
		programID, ordinal)
	return scanUtterance(row, fmt.Sprintf("utterance %d of program %d", ordinal, programID))
}

// ListUtterances returns a program's utterances in ordinal order.
func (s *Store) ListUtterances(ctx context.Context, programID int64) ([]*Utterance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+utteranceColumns+` FROM utterances WHERE program_id = ? ORDER BY ordinal`, programID)
	if err != nil {
		return nil, fmt.Errorf("list utterances: %w", err)
	}
	defer rows.Close()

	var utterances []*Utterance
	for rows.Next() {
		utterance, err := scanUtteranceRow(rows)
		if err != nil {
			return nil, err
		}
		utterances = append(utterances, utterance)
	}
	return utterances, rows.Err()
}

// CountUtterances returns the number of utterances in a program.
func (s *Store) CountUtterances(ctx context.Context, programID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM utterances WHERE program_id = ?`, programID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count utterances: %w", err)
	}
	return count, nil
}

// SetUtteranceAudio records the artifact path and completion time after
// synthesis (or after an accepted repair overwrote the file in place).
func (s *Store) SetUtteranceAudio(ctx context.Context, id int64, audioPath string, completedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE utterances SET audio_path = ?, completed_at = ? WHERE id = ?`,
		audioPath, formatTime(completedAt), id)
	if err != nil {
		return fmt.Errorf("set utterance audio: %w", err)
	}
	return requireAffected(res, "set audio", id)
}

// RewriteUtterance applies a reread: new text, new speaker, and fresh
// timestamps. The audio artifact path is unchanged (the file is
// overwritten on disk).
func (s *Store) RewriteUtterance(ctx context.Context, id int64, speakerID int64, text string, startedAt, completedAt time.Time) error {
	if strings.TrimSpace(text) == "" {
		return services.Wrap(services.ErrValidation, "store", "rewrite utterance", "text must not be empty", nil)
	}
	utterance, err := s.GetUtterance(ctx, id)
	if err != nil {
		return err
	}
	program, err := s.GetProgram(ctx, utterance.ProgramID)
	if err != nil {
		return err
	}
	speaker, err := s.GetSpeaker(ctx, speakerID)
	if err != nil {
		return err
	}
	if speaker.ProjectID != program.ProjectID {
		return services.Wrap(services.ErrValidation, "store", "rewrite utterance",
			fmt.Sprintf("speaker %d belongs to project %d, not project %d", speakerID, speaker.ProjectID, program.ProjectID), nil)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE utterances SET speaker_id = ?, text = ?, started_at = ?, completed_at = ? WHERE id = ?`,
		speakerID, text, formatTime(startedAt), formatTime(completedAt), id)
	if err != nil {
		return fmt.Errorf("rewrite utterance: %w", err)
	}
	return requireAffected(res, "rewrite", id)
}

func requireAffected(res sql.Result, operation string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", operation, fmt.Sprintf("utterance %d", id), nil)
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUtterance(row *sql.Row, what string) (*Utterance, error) {
	utterance, err := scanUtteranceRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "store", "get utterance", what, nil)
		}
		return nil, err
	}
	return utterance, nil
}

func scanUtteranceRow(scanner rowScanner) (*Utterance, error) {
	var (
		utterance    Utterance
		audioPath    sql.NullString
		timecode     sql.NullString
		startedRaw   string
		completedRaw sql.NullString
	)
	if err := scanner.Scan(
		&utterance.ID,
		&utterance.ProgramID,
		&utterance.SpeakerID,
		&utterance.Ordinal,
		&utterance.Text,
		&audioPath,
		&timecode,
		&startedRaw,
		&completedRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan utterance: %w", err)
	}
	utterance.AudioPath = audioPath.String
	utterance.Timecode = timecode.String
	utterance.StartedAt = parseTime(startedRaw)
	utterance.CompletedAt = parseNullableTime(completedRaw)
	return &utterance, nil
}
