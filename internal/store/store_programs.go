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

const programColumns = "id, project_id, lang, text, created_at, completed_at"

// CreateProgram inserts a new target-language rendition for a project.
// The translation text is fixed at creation time.
func (s *Store) CreateProgram(ctx context.Context, projectID int64, lang, text string) (*Program, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create program", "lang must not be empty", nil)
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO programs (project_id, lang, text, created_at) VALUES (?, ?, ?, ?)`,
		projectID, lang, text, formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert program: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetProgram(ctx, id)
}

// GetProgram fetches a program by id.
func (s *Store) GetProgram(ctx context.Context, id int64) (*Program, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+programColumns+` FROM programs WHERE id = ?`, id)
	return scanProgram(row, fmt.Sprintf("program %d", id))
}

// GetProgramByLang fetches the rendition of a project in one target language.
func (s *Store) GetProgramByLang(ctx context.Context, projectID int64, lang string) (*Program, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+programColumns+` FROM programs WHERE project_id = ? AND lang = ?`,
		projectID, strings.TrimSpace(lang))
	return scanProgram(row, fmt.Sprintf("program %s of project %d", lang, projectID))
}

// MarkProgramCompleted records the moment all utterances were synthesized.
func (s *Store) MarkProgramCompleted(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE programs SET completed_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("mark program completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "mark completed", fmt.Sprintf("program %d", id), nil)
	}
	return nil
}

// DeleteProgram removes a program, its utterances, and their verification
// records (cascading).
func (s *Store) DeleteProgram(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "delete program", fmt.Sprintf("program %d", id), nil)
	}
	return nil
}

func scanProgram(row *sql.Row, what string) (*Program, error) {
	var (
		program      Program
		createdRaw   string
		completedRaw sql.NullString
	)
	if err := row.Scan(&program.ID, &program.ProjectID, &program.Lang, &program.Text, &createdRaw, &completedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "store", "get program", what, nil)
		}
		return nil, fmt.Errorf("scan program: %w", err)
	}
	program.CreatedAt = parseTime(createdRaw)
	program.CompletedAt = parseNullableTime(completedRaw)
	return &program, nil
}
