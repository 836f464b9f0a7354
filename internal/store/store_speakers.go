package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"revoice/internal/services"
)

// CreateSpeaker registers a voice identity within a project.
func (s *Store) CreateSpeaker(ctx context.Context, projectID int64, name string) (*Speaker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create speaker", "name must not be empty", nil)
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO speakers (project_id, name) VALUES (?, ?)`, projectID, name)
	if err != nil {
		return nil, fmt.Errorf("insert speaker: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetSpeaker(ctx, id)
}

// GetSpeaker fetches a speaker by id.
func (s *Store) GetSpeaker(ctx context.Context, id int64) (*Speaker, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name FROM speakers WHERE id = ?`, id)
	return scanSpeaker(row, fmt.Sprintf("speaker %d", id))
}

// GetSpeakerByName fetches a speaker by name within a project.
func (s *Store) GetSpeakerByName(ctx context.Context, projectID int64, name string) (*Speaker, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name FROM speakers WHERE project_id = ? AND name = ?`,
		projectID, strings.TrimSpace(name))
	return scanSpeaker(row, fmt.Sprintf("speaker %q in project %d", name, projectID))
}

// ListSpeakers returns all speakers of a project ordered by name.
func (s *Store) ListSpeakers(ctx context.Context, projectID int64) ([]*Speaker, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name FROM speakers WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	defer rows.Close()

	var speakers []*Speaker
	for rows.Next() {
		var speaker Speaker
		if err := rows.Scan(&speaker.ID, &speaker.ProjectID, &speaker.Name); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		speakers = append(speakers, &speaker)
	}
	return speakers, rows.Err()
}

func scanSpeaker(row *sql.Row, what string) (*Speaker, error) {
	var speaker Speaker
	if err := row.Scan(&speaker.ID, &speaker.ProjectID, &speaker.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "store", "get speaker", what, nil)
		}
		return nil, fmt.Errorf("scan speaker: %w", err)
	}
	return &speaker, nil
}
