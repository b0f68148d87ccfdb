package store

import (
	"context"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

// Store defines the persistence interface for an owner's tasks, projects,
// archive and notes. Every method is scoped to an owner id; an empty owner
// yields model.ErrNoOwner and records belonging to another owner behave as
// if they did not exist.
type Store interface {
	// === Tasks (active set) ===

	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, ownerID, id string) error
	GetTask(ctx context.Context, ownerID, id string) (*model.Task, error)
	ListActiveTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	ToggleTask(ctx context.Context, ownerID, id string) (*model.Task, error)
	PinTask(ctx context.Context, ownerID, id string, scope model.PinScope) error
	ReorderTasks(ctx context.Context, ownerID string, orders []model.TaskOrder) error

	// === Projects ===

	CreateProject(ctx context.Context, project model.Project) (model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) error
	GetProject(ctx context.Context, ownerID, id string) (*model.Project, error)
	ListProjects(ctx context.Context, ownerID string, includeInactive bool) ([]model.Project, error)
	DeactivateProject(ctx context.Context, ownerID, id string) error
	RestoreProject(ctx context.Context, ownerID, id string) error

	// === Archive ===

	InsertArchivedTask(ctx context.Context, record model.ArchivedTask) error
	ListArchivedTasks(ctx context.Context, ownerID string) ([]model.ArchivedTask, error)
	GetArchivedTaskByOriginal(ctx context.Context, ownerID, taskID string) (*model.ArchivedTask, error)
	DeleteArchivedTask(ctx context.Context, ownerID, id string) error
	DeleteAllArchivedTasks(ctx context.Context, ownerID string) (int64, error)

	// === Notes ===

	UpsertNote(ctx context.Context, note model.Note) (model.Note, error)
	GetNoteByScope(ctx context.Context, ownerID, scopeKey string) (*model.Note, error)
	ListNotesByProject(ctx context.Context, ownerID, projectID string) ([]model.Note, error)
	ListNotesByDate(ctx context.Context, ownerID string, day calendar.DayKey) ([]model.Note, error)
	DeleteNote(ctx context.Context, ownerID, id string) error

	Close() error
}
