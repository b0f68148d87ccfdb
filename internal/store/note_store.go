package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

const noteColumns = `id, owner_id, project_id, project_name, note_date, scope_key, note_text,
	created_at, updated_at`

type noteRow struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	ProjectID   sql.NullString `db:"project_id"`
	ProjectName sql.NullString `db:"project_name"`
	NoteDate    sql.NullString `db:"note_date"`
	ScopeKey    string         `db:"scope_key"`
	Text        string         `db:"note_text"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (r noteRow) toModel() model.Note {
	n := model.Note{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		NoteDate:  calendar.DayKey(r.NoteDate.String),
		ScopeKey:  r.ScopeKey,
		Text:      r.Text,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.ProjectID.Valid {
		id := r.ProjectID.String
		n.ProjectID = &id
	}
	if r.ProjectName.Valid {
		name := r.ProjectName.String
		n.ProjectName = &name
	}
	return n
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// UpsertNote writes the note for its scope key, replacing the text of an
// existing note in the same scope. The stored note is returned.
func (s *SQLStore) UpsertNote(ctx context.Context, note model.Note) (model.Note, error) {
	if err := requireOwner(note.OwnerID); err != nil {
		return model.Note{}, err
	}
	if note.ScopeKey == "" {
		return model.Note{}, fmt.Errorf("note scope key must not be empty: %w", model.ErrInvalidArgs)
	}
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	now := s.timestamp()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO notes (id, owner_id, project_id, project_name, note_date, scope_key, note_text,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, scope_key) DO UPDATE SET
			note_text = excluded.note_text,
			project_id = excluded.project_id,
			project_name = excluded.project_name,
			updated_at = excluded.updated_at`),
		note.ID, note.OwnerID, nullString(note.ProjectID), nullString(note.ProjectName),
		nullDay(note.NoteDate), note.ScopeKey, note.Text, now, now,
	)
	if err != nil {
		return model.Note{}, fmt.Errorf("upserting note %s: %w", note.ScopeKey, err)
	}

	stored, err := s.GetNoteByScope(ctx, note.OwnerID, note.ScopeKey)
	if err != nil {
		return model.Note{}, err
	}
	return *stored, nil
}

// GetNoteByScope returns the note stored under scopeKey.
func (s *SQLStore) GetNoteByScope(ctx context.Context, ownerID, scopeKey string) (*model.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	var row noteRow
	err := s.db.GetContext(ctx, &row,
		s.q("SELECT "+noteColumns+" FROM notes WHERE owner_id = ? AND scope_key = ?"),
		ownerID, scopeKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %s: %w", scopeKey, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", scopeKey, err)
	}
	n := row.toModel()
	return &n, nil
}

// ListNotesByProject returns every note attached to a project, newest day first.
func (s *SQLStore) ListNotesByProject(ctx context.Context, ownerID, projectID string) ([]model.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.selectNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE owner_id = ? AND project_id = ? ORDER BY note_date DESC, updated_at DESC",
		ownerID, projectID)
}

// ListNotesByDate returns every note for a day across projects.
func (s *SQLStore) ListNotesByDate(ctx context.Context, ownerID string, day calendar.DayKey) ([]model.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.selectNotes(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE owner_id = ? AND note_date = ? ORDER BY scope_key",
		ownerID, string(day))
}

func (s *SQLStore) selectNotes(ctx context.Context, query string, args ...any) ([]model.Note, error) {
	var rows []noteRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	notes := make([]model.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, r.toModel())
	}
	return notes, nil
}

// DeleteNote removes a note by id.
func (s *SQLStore) DeleteNote(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM notes WHERE id = ? AND owner_id = ?"), id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return checkAffected(rows, "note", id)
}
