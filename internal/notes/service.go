package notes

import (
	"context"
	"fmt"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

// Store is what the note service needs from persistence.
type Store interface {
	GetProject(ctx context.Context, ownerID, id string) (*model.Project, error)
	UpsertNote(ctx context.Context, note model.Note) (model.Note, error)
	GetNoteByScope(ctx context.Context, ownerID, scopeKey string) (*model.Note, error)
}

// Service addresses notes by (project, day) instead of raw scope keys.
type Service struct {
	store Store
}

// NewService creates a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Set writes the note for the scope. A nil projectID means no project and
// a zero day means no date.
func (s *Service) Set(ctx context.Context, ownerID string, projectID *string, day calendar.DayKey, text string) (model.Note, error) {
	name, err := s.projectName(ctx, ownerID, projectID)
	if err != nil {
		return model.Note{}, err
	}
	return s.store.UpsertNote(ctx, model.Note{
		OwnerID:     ownerID,
		ProjectID:   projectID,
		ProjectName: name,
		NoteDate:    day,
		ScopeKey:    ScopeKey(name, day),
		Text:        text,
	})
}

// Get returns the note for the scope, or an error wrapping model.ErrNotFound.
func (s *Service) Get(ctx context.Context, ownerID string, projectID *string, day calendar.DayKey) (*model.Note, error) {
	name, err := s.projectName(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	return s.store.GetNoteByScope(ctx, ownerID, ScopeKey(name, day))
}

func (s *Service) projectName(ctx context.Context, ownerID string, projectID *string) (*string, error) {
	if ownerID == "" {
		return nil, model.ErrNoOwner
	}
	if projectID == nil || *projectID == "" {
		return nil, nil
	}
	p, err := s.store.GetProject(ctx, ownerID, *projectID)
	if err != nil {
		return nil, fmt.Errorf("resolving note project: %w", err)
	}
	name := p.Name
	return &name, nil
}
