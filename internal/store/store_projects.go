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

// CreateProject inserts a new project. Titles are trimmed and must be non-empty.
func (s *Store) CreateProject(ctx context.Context, title, mediaPath string) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create project", "title must not be empty", nil)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (title, media_path, created_at) VALUES (?, ?, ?)`,
		title, mediaPath, formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a project by id.
func (s *Store) GetProject(ctx context.Context, id int64) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, media_path, created_at FROM projects WHERE id = ?`, id)
	return scanProject(row, fmt.Sprintf("project %d", id))
}

// GetProjectByTitle fetches a project by its unique title.
func (s *Store) GetProjectByTitle(ctx context.Context, title string) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, media_path, created_at FROM projects WHERE title = ?`, strings.TrimSpace(title))
	return scanProject(row, fmt.Sprintf("project %q", title))
}

func scanProject(row *sql.Row, what string) (*Project, error) {
	var (
		project    Project
		createdRaw string
	)
	if err := row.Scan(&project.ID, &project.Title, &project.MediaPath, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "store", "get project", what, nil)
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	project.CreatedAt = parseTime(createdRaw)
	return &project, nil
}
