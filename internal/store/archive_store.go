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

const archivedColumns = `id, owner_id, original_task_id, title, description, due_date, priority,
	completed, project_tags, project_names, pinned_scope, pinned_at, order_index,
	created_at, moved_at, days_past_due`

type archivedRow struct {
	ID             string         `db:"id"`
	OwnerID        string         `db:"owner_id"`
	OriginalTaskID string         `db:"original_task_id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	DueDate        sql.NullString `db:"due_date"`
	Priority       string         `db:"priority"`
	Completed      int            `db:"completed"`
	ProjectTags    string         `db:"project_tags"`
	ProjectNames   string         `db:"project_names"`
	PinnedScope    string         `db:"pinned_scope"`
	PinnedAt       sql.NullTime   `db:"pinned_at"`
	OrderIndex     sql.NullInt64  `db:"order_index"`
	CreatedAt      sql.NullTime   `db:"created_at"`
	MovedAt        sql.NullTime   `db:"moved_at"`
	DaysPastDue    int            `db:"days_past_due"`
}

func (r archivedRow) toModel() (model.ArchivedTask, error) {
	tags, err := decodeList(r.ProjectTags)
	if err != nil {
		return model.ArchivedTask{}, fmt.Errorf("decoding project tags of archived task %s: %w", r.ID, err)
	}
	names, err := decodeList(r.ProjectNames)
	if err != nil {
		return model.ArchivedTask{}, fmt.Errorf("decoding project names of archived task %s: %w", r.ID, err)
	}
	a := model.ArchivedTask{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		OriginalTaskID: r.OriginalTaskID,
		Title:          r.Title,
		Description:    r.Description,
		DueDate:        calendar.DayKey(r.DueDate.String),
		Priority:       model.Priority(r.Priority),
		Completed:      r.Completed != 0,
		ProjectTags:    tags,
		ProjectNames:   names,
		PinnedScope:    model.PinScope(r.PinnedScope),
		CreatedAt:      r.CreatedAt.Time,
		MovedAt:        r.MovedAt.Time,
		DaysPastDue:    r.DaysPastDue,
	}
	if r.PinnedAt.Valid {
		at := r.PinnedAt.Time
		a.PinnedAt = &at
	}
	if r.OrderIndex.Valid {
		idx := int(r.OrderIndex.Int64)
		a.OrderIndex = &idx
	}
	return a, nil
}

// InsertArchivedTask stores an archive record. Records are immutable once
// written; there is no update path.
func (s *SQLStore) InsertArchivedTask(ctx context.Context, record model.ArchivedTask) error {
	if err := requireOwner(record.OwnerID); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	tags, err := encodeList(record.ProjectTags)
	if err != nil {
		return fmt.Errorf("encoding project tags: %w", err)
	}
	names, err := encodeList(record.ProjectNames)
	if err != nil {
		return fmt.Errorf("encoding project names: %w", err)
	}
	pinnedAt := sql.NullTime{}
	if record.PinnedAt != nil {
		pinnedAt = sql.NullTime{Time: record.PinnedAt.UTC(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO archived_tasks (id, owner_id, original_task_id, title, description, due_date,
			priority, completed, project_tags, project_names, pinned_scope, pinned_at, order_index,
			created_at, moved_at, days_past_due)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		record.ID, record.OwnerID, record.OriginalTaskID, record.Title, record.Description,
		nullDay(record.DueDate), string(record.Priority), boolToInt(record.Completed),
		tags, names, string(record.PinnedScope), pinnedAt, nullIndex(record.OrderIndex),
		record.CreatedAt.UTC(), record.MovedAt.UTC(), record.DaysPastDue,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("archived task %s: %w", record.ID, model.ErrConflict)
		}
		return fmt.Errorf("inserting archived task for %s: %w", record.OriginalTaskID, err)
	}
	return nil
}

// ListArchivedTasks returns the owner's archive, most recently moved first.
func (s *SQLStore) ListArchivedTasks(ctx context.Context, ownerID string) ([]model.ArchivedTask, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	var rows []archivedRow
	err := s.db.SelectContext(ctx, &rows,
		s.q("SELECT "+archivedColumns+" FROM archived_tasks WHERE owner_id = ? ORDER BY moved_at DESC, id"),
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying archived tasks: %w", err)
	}

	records := make([]model.ArchivedTask, 0, len(rows))
	for _, r := range rows {
		a, err := r.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, nil
}

// GetArchivedTaskByOriginal returns the archive record made from the given
// active task, or model.ErrNotFound if that task was never archived.
func (s *SQLStore) GetArchivedTaskByOriginal(ctx context.Context, ownerID, taskID string) (*model.ArchivedTask, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	var row archivedRow
	err := s.db.GetContext(ctx, &row,
		s.q("SELECT "+archivedColumns+" FROM archived_tasks WHERE owner_id = ? AND original_task_id = ? ORDER BY moved_at LIMIT 1"),
		ownerID, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("archived task for %s: %w", taskID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying archived task for %s: %w", taskID, err)
	}
	a, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteArchivedTask removes one archive record.
func (s *SQLStore) DeleteArchivedTask(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM archived_tasks WHERE id = ? AND owner_id = ?"), id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting archived task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return checkAffected(rows, "archived task", id)
}

// DeleteAllArchivedTasks clears the owner's archive and reports how many
// records were removed.
func (s *SQLStore) DeleteAllArchivedTasks(ctx context.Context, ownerID string) (int64, error) {
	if err := requireOwner(ownerID); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM archived_tasks WHERE owner_id = ?"), ownerID)
	if err != nil {
		return 0, fmt.Errorf("clearing archive: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
