package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

const taskColumns = `id, owner_id, title, description, due_date, priority, completed,
	project_tags, pinned_scope, pinned_at, order_index, created_at`

// taskRow is the storage shape of model.Task.
type taskRow struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	DueDate     sql.NullString `db:"due_date"`
	Priority    string         `db:"priority"`
	Completed   int            `db:"completed"`
	ProjectTags string         `db:"project_tags"`
	PinnedScope string         `db:"pinned_scope"`
	PinnedAt    sql.NullTime   `db:"pinned_at"`
	OrderIndex  sql.NullInt64  `db:"order_index"`
	CreatedAt   sql.NullTime   `db:"created_at"`
}

func (r taskRow) toModel() (model.Task, error) {
	tags, err := decodeList(r.ProjectTags)
	if err != nil {
		return model.Task{}, fmt.Errorf("decoding project tags of task %s: %w", r.ID, err)
	}
	t := model.Task{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     calendar.DayKey(r.DueDate.String),
		Priority:    model.Priority(r.Priority),
		Completed:   r.Completed != 0,
		ProjectTags: tags,
		PinnedScope: model.PinScope(r.PinnedScope),
		CreatedAt:   r.CreatedAt.Time,
	}
	if r.PinnedAt.Valid {
		at := r.PinnedAt.Time
		t.PinnedAt = &at
	}
	if r.OrderIndex.Valid {
		idx := int(r.OrderIndex.Int64)
		t.OrderIndex = &idx
	}
	return t, nil
}

func nullDay(k calendar.DayKey) sql.NullString {
	return sql.NullString{String: string(k), Valid: !k.IsZero()}
}

func nullIndex(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func validateTask(task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty: %w", model.ErrInvalidArgs)
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("unknown priority %q: %w", task.Priority, model.ErrInvalidArgs)
	}
	if !task.DueDate.IsZero() {
		if _, err := calendar.ParseDayKey(string(task.DueDate)); err != nil {
			return fmt.Errorf("%v: %w", err, model.ErrInvalidArgs)
		}
	}
	return nil
}

// CreateTask inserts a new active task. An empty id gets a fresh uuid, an
// empty priority defaults to medium and created_at is stamped by the store.
func (s *SQLStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	if err := requireOwner(task.OwnerID); err != nil {
		return model.Task{}, err
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := validateTask(task); err != nil {
		return model.Task{}, err
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.ProjectTags == nil {
		task.ProjectTags = []string{}
	}
	task.CreatedAt = s.timestamp()
	task.PinnedScope = model.PinNone

	// New tasks go to the bottom of the manual order.
	if task.OrderIndex == nil {
		var maxOrder int
		if err := s.db.GetContext(ctx, &maxOrder,
			s.q("SELECT COALESCE(MAX(order_index), -1) FROM tasks WHERE owner_id = ?"), task.OwnerID); err != nil {
			return model.Task{}, fmt.Errorf("reading max order index: %w", err)
		}
		next := maxOrder + 1
		task.OrderIndex = &next
	}
	task.PinnedAt = nil

	tags, err := encodeList(task.ProjectTags)
	if err != nil {
		return model.Task{}, fmt.Errorf("encoding project tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO tasks (id, owner_id, title, description, due_date, priority, completed,
			project_tags, pinned_scope, pinned_at, order_index, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		task.ID, task.OwnerID, task.Title, task.Description, nullDay(task.DueDate),
		string(task.Priority), boolToInt(task.Completed), tags, string(task.PinnedScope),
		sql.NullTime{}, nullIndex(task.OrderIndex), task.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Task{}, fmt.Errorf("creating task %s: %w", task.ID, model.ErrConflict)
		}
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

// UpdateTask rewrites the editable fields of an existing task. Pin state
// and created_at are left untouched; use PinTask for pinning.
func (s *SQLStore) UpdateTask(ctx context.Context, task model.Task) error {
	if err := requireOwner(task.OwnerID); err != nil {
		return err
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := validateTask(task); err != nil {
		return err
	}
	tags, err := encodeList(task.ProjectTags)
	if err != nil {
		return fmt.Errorf("encoding project tags: %w", err)
	}

	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE tasks SET
			title = ?, description = ?, due_date = ?, priority = ?,
			completed = ?, project_tags = ?, order_index = ?
		WHERE id = ? AND owner_id = ?`),
		task.Title, task.Description, nullDay(task.DueDate), string(task.Priority),
		boolToInt(task.Completed), tags, nullIndex(task.OrderIndex),
		task.ID, task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	rows, _ := result.RowsAffected()
	return checkAffected(rows, "task", task.ID)
}

// DeleteTask removes a task from the active set.
func (s *SQLStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM tasks WHERE id = ? AND owner_id = ?"), id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return checkAffected(rows, "task", id)
}

// GetTask retrieves a single task.
func (s *SQLStore) GetTask(ctx context.Context, ownerID, id string) (*model.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	var row taskRow
	err := s.db.GetContext(ctx, &row,
		s.q("SELECT "+taskColumns+" FROM tasks WHERE id = ? AND owner_id = ?"), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActiveTasks returns every task in the owner's active set, newest first.
func (s *SQLStore) ListActiveTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows,
		s.q("SELECT "+taskColumns+" FROM tasks WHERE owner_id = ? ORDER BY created_at DESC, id"),
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ToggleTask flips the completed flag and returns the updated task.
func (s *SQLStore) ToggleTask(ctx context.Context, ownerID, id string) (*model.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE tasks SET completed = 1 - completed WHERE id = ? AND owner_id = ?"),
		id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("toggling task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if err := checkAffected(rows, "task", id); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, ownerID, id)
}

// PinTask sets or clears the pin scope. Pinning stamps pinned_at with the
// store clock; PinNone clears both columns.
func (s *SQLStore) PinTask(ctx context.Context, ownerID, id string, scope model.PinScope) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if _, ok := model.ParsePinScope(string(scope)); !ok {
		return fmt.Errorf("unknown pin scope %q: %w", scope, model.ErrInvalidArgs)
	}

	pinnedAt := sql.NullTime{}
	if scope != model.PinNone {
		pinnedAt = sql.NullTime{Time: s.timestamp(), Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE tasks SET pinned_scope = ?, pinned_at = ? WHERE id = ? AND owner_id = ?"),
		string(scope), pinnedAt, id, ownerID)
	if err != nil {
		return fmt.Errorf("pinning task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return checkAffected(rows, "task", id)
}

// ReorderTasks applies manual order indexes in one transaction. Ids that do
// not belong to the owner abort the whole batch.
func (s *SQLStore) ReorderTasks(ctx context.Context, ownerID string, orders []model.TaskOrder) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reorder: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := s.q("UPDATE tasks SET order_index = ? WHERE id = ? AND owner_id = ?")
	for _, o := range orders {
		result, err := tx.ExecContext(ctx, stmt, o.OrderIndex, o.ID, ownerID)
		if err != nil {
			return fmt.Errorf("reordering task %s: %w", o.ID, err)
		}
		rows, _ := result.RowsAffected()
		if err := checkAffected(rows, "task", o.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}
