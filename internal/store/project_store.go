package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/taskdesk/internal/model"
)

const projectColumns = "id, owner_id, name, color, active, created_at, updated_at"

type projectRow struct {
	ID        string       `db:"id"`
	OwnerID   string       `db:"owner_id"`
	Name      string       `db:"name"`
	Color     string       `db:"color"`
	Active    int          `db:"active"`
	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

func (r projectRow) toModel() model.Project {
	return model.Project{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		Color:     r.Color,
		Active:    r.Active != 0,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

// CreateProject inserts a new, active project.
func (s *SQLStore) CreateProject(ctx context.Context, project model.Project) (model.Project, error) {
	if err := requireOwner(project.OwnerID); err != nil {
		return model.Project{}, err
	}
	project.Name = strings.TrimSpace(project.Name)
	if project.Name == "" {
		return model.Project{}, fmt.Errorf("project name must not be empty: %w", model.ErrInvalidArgs)
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := s.timestamp()
	project.CreatedAt = now
	project.UpdatedAt = now
	project.Active = true

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO projects (id, owner_id, name, color, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		project.ID, project.OwnerID, project.Name, project.Color,
		boolToInt(project.Active), project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Project{}, fmt.Errorf("creating project %s: %w", project.ID, model.ErrConflict)
		}
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}
	return project, nil
}

// UpdateProject renames or recolors an existing project. Archived records
// keep the names they captured when they were archived.
func (s *SQLStore) UpdateProject(ctx context.Context, project model.Project) error {
	if err := requireOwner(project.OwnerID); err != nil {
		return err
	}
	project.Name = strings.TrimSpace(project.Name)
	if project.Name == "" {
		return fmt.Errorf("project name must not be empty: %w", model.ErrInvalidArgs)
	}

	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE projects SET name = ?, color = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`),
		project.Name, project.Color, s.timestamp(), project.ID, project.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", project.ID, err)
	}
	rows, _ := result.RowsAffected()
	return checkAffected(rows, "project", project.ID)
}

// GetProject retrieves a single project, active or not.
func (s *SQLStore) GetProject(ctx context.Context, ownerID, id string) (*model.Project, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	var row projectRow
	err := s.db.GetContext(ctx, &row,
		s.q("SELECT "+projectColumns+" FROM projects WHERE id = ? AND owner_id = ?"), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	p := row.toModel()
	return &p, nil
}

// ListProjects retrieves the owner's projects ordered by name, optionally
// including deactivated ones.
func (s *SQLStore) ListProjects(ctx context.Context, ownerID string, includeInactive bool) ([]model.Project, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	query := "SELECT " + projectColumns + " FROM projects WHERE owner_id = ?"
	if !includeInactive {
		query += " AND active = 1"
	}
	query += " ORDER BY name, id"

	var rows []projectRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), ownerID); err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, r.toModel())
	}
	return projects, nil
}

// DeactivateProject hides a project from active views. Projects are never
// hard-deleted so archived records can still resolve their names.
func (s *SQLStore) DeactivateProject(ctx context.Context, ownerID, id string) error {
	return s.setProjectActive(ctx, ownerID, id, false)
}

// RestoreProject reactivates a deactivated project.
func (s *SQLStore) RestoreProject(ctx context.Context, ownerID, id string) error {
	return s.setProjectActive(ctx, ownerID, id, true)
}

func (s *SQLStore) setProjectActive(ctx context.Context, ownerID, id string, active bool) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE projects SET active = ?, updated_at = ? WHERE id = ? AND owner_id = ?"),
		boolToInt(active), s.timestamp(), id, ownerID)
	if err != nil {
		return fmt.Errorf("setting project %s active=%t: %w", id, active, err)
	}
	rows, _ := result.RowsAffected()
	return checkAffected(rows, "project", id)
}
