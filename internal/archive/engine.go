// Package archive moves past-due tasks out of the active set and manages
// the resulting archive.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/overdue"
)

// Store is the record store the engine works against.
type Store interface {
	ListActiveTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	ListProjects(ctx context.Context, ownerID string, includeInactive bool) ([]model.Project, error)
	InsertArchivedTask(ctx context.Context, record model.ArchivedTask) error
	DeleteTask(ctx context.Context, ownerID, id string) error
	ListArchivedTasks(ctx context.Context, ownerID string) ([]model.ArchivedTask, error)
	GetArchivedTaskByOriginal(ctx context.Context, ownerID, taskID string) (*model.ArchivedTask, error)
	DeleteArchivedTask(ctx context.Context, ownerID, id string) error
	DeleteAllArchivedTasks(ctx context.Context, ownerID string) (int64, error)
}

// Engine runs the archive transition for one owner at a time.
type Engine struct {
	store       Store
	cal         *calendar.Normalizer
	log         *slog.Logger
	concurrency int
	newID       func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithConcurrency sets how many tasks are moved at once. Values below 1
// mean one at a time.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.concurrency = n
	}
}

// WithIDGenerator overrides archive record id generation.
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) {
		if f != nil {
			e.newID = f
		}
	}
}

// NewEngine creates an Engine. A nil normalizer means IST on the wall clock.
func NewEngine(store Store, cal *calendar.Normalizer, opts ...Option) *Engine {
	if cal == nil {
		cal = calendar.New(nil, nil)
	}
	e := &Engine{
		store:       store,
		cal:         cal,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: 1,
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ArchivePastDue moves every overdue task of the owner, completed or not,
// into the archive.
//
// The returned error is non-nil only when nothing was attempted: a missing
// owner or a failed read of tasks or projects. Per-task problems are
// collected in the Result. Once moves start they run to completion even if
// ctx is cancelled.
func (e *Engine) ArchivePastDue(ctx context.Context, ownerID string) (Result, error) {
	if ownerID == "" {
		return Result{}, ErrNoOwner
	}

	today := e.cal.Today()

	tasks, err := e.store.ListActiveTasks(ctx, ownerID)
	if err != nil {
		return Result{}, e.readErr("active tasks", err)
	}
	projects, err := e.store.ListProjects(ctx, ownerID, true)
	if err != nil {
		return Result{}, e.readErr("projects", err)
	}
	names := model.NewProjectNameIndex(projects)

	var selected []model.Task
	for _, t := range tasks {
		if t.HasDueDate() && overdue.IsOverdue(t.DueDate, today) {
			selected = append(selected, t)
		}
	}

	res := Result{Selected: len(selected)}
	if len(selected) == 0 {
		e.log.Info("archive run", "owner", ownerID, "today", today, "selected", 0, "moved", 0)
		return res, nil
	}

	moveCtx := context.WithoutCancel(ctx)
	outcomes := make([]moveOutcome, len(selected))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, t := range selected {
		g.Go(func() error {
			outcomes[i] = e.move(moveCtx, t, names, today)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		switch {
		case o.failure != nil:
			res.Failures = append(res.Failures, *o.failure)
		case o.inconsistency != nil:
			res.Inconsistencies = append(res.Inconsistencies, *o.inconsistency)
		default:
			res.Moved++
		}
	}

	e.log.Info("archive run",
		"owner", ownerID,
		"today", today,
		"selected", res.Selected,
		"moved", res.Moved,
		"inconsistencies", len(res.Inconsistencies),
		"failures", len(res.Failures),
	)
	return res, nil
}

type moveOutcome struct {
	failure       *Failure
	inconsistency *Inconsistency
}

// move archives one task: insert the snapshot, then delete the original
// only if the insert succeeded. A task that already has an archive record
// from an earlier partial move is only deleted, so it is never archived
// twice.
func (e *Engine) move(ctx context.Context, t model.Task, names model.ProjectNameIndex, today calendar.DayKey) moveOutcome {
	archivedID, err := e.existingRecord(ctx, t)
	if err != nil {
		e.log.Error("archive lookup failed", "owner", t.OwnerID, "task", t.ID, "error", err)
		return moveOutcome{failure: &Failure{TaskID: t.ID, Err: err}}
	}

	if archivedID == "" {
		record := Snapshot(t, names, today, e.cal.Now())
		record.ID = e.newID()
		if err := e.store.InsertArchivedTask(ctx, record); err != nil {
			e.log.Error("archive insert failed", "owner", t.OwnerID, "task", t.ID, "error", err)
			return moveOutcome{failure: &Failure{TaskID: t.ID, Err: err}}
		}
		archivedID = record.ID
	} else {
		e.log.Info("task already archived, removing active copy",
			"owner", t.OwnerID, "task", t.ID, "archived", archivedID)
	}

	if err := e.store.DeleteTask(ctx, t.OwnerID, t.ID); err != nil {
		e.log.Warn("task archived but not removed from active set",
			"owner", t.OwnerID, "task", t.ID, "archived", archivedID, "error", err)
		return moveOutcome{inconsistency: &Inconsistency{TaskID: t.ID, ArchivedID: archivedID, Err: err}}
	}
	return moveOutcome{}
}

// existingRecord returns the id of t's archive record, or "" if t has none.
func (e *Engine) existingRecord(ctx context.Context, t model.Task) (string, error) {
	rec, err := e.store.GetArchivedTaskByOriginal(ctx, t.OwnerID, t.ID)
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (e *Engine) readErr(what string, err error) error {
	if errors.Is(err, model.ErrNoOwner) {
		return err
	}
	e.log.Error("archive read failed", "what", what, "error", err)
	return &ReadError{What: what, Err: err}
}

// Snapshot builds the archive record for a task. Project tags that resolve
// to no project are dropped from the names; the tags themselves are copied
// as they are.
func Snapshot(t model.Task, names model.ProjectNameIndex, today calendar.DayKey, movedAt time.Time) model.ArchivedTask {
	tags := append([]string{}, t.ProjectTags...)

	var pinnedAt *time.Time
	if t.PinnedAt != nil {
		at := *t.PinnedAt
		pinnedAt = &at
	}
	var orderIndex *int
	if t.OrderIndex != nil {
		idx := *t.OrderIndex
		orderIndex = &idx
	}

	return model.ArchivedTask{
		OwnerID:        t.OwnerID,
		OriginalTaskID: t.ID,
		Title:          t.Title,
		Description:    t.Description,
		DueDate:        t.DueDate,
		Priority:       t.Priority,
		Completed:      t.Completed,
		ProjectTags:    tags,
		ProjectNames:   names.Resolve(t.ProjectTags),
		PinnedScope:    t.PinnedScope,
		PinnedAt:       pinnedAt,
		OrderIndex:     orderIndex,
		CreatedAt:      t.CreatedAt,
		MovedAt:        movedAt.UTC(),
		DaysPastDue:    overdue.DaysPastDue(t.DueDate, today),
	}
}

// List returns the owner's archive, most recently moved first. Records
// stored without project names get them resolved from the current project
// index; stored names are never replaced.
func (e *Engine) List(ctx context.Context, ownerID string) ([]model.ArchivedTask, error) {
	if ownerID == "" {
		return nil, ErrNoOwner
	}
	records, err := e.store.ListArchivedTasks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing archive: %w", err)
	}

	var names model.ProjectNameIndex
	for i := range records {
		r := &records[i]
		if len(r.ProjectNames) > 0 || len(r.ProjectTags) == 0 {
			continue
		}
		if names == nil {
			projects, err := e.store.ListProjects(ctx, ownerID, true)
			if err != nil {
				return nil, fmt.Errorf("listing projects: %w", err)
			}
			names = model.NewProjectNameIndex(projects)
		}
		r.ProjectNames = names.Resolve(r.ProjectTags)
	}
	return records, nil
}

// Delete removes one archive record. Deleting a record that is already
// gone succeeds.
func (e *Engine) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return ErrNoOwner
	}
	err := e.store.DeleteArchivedTask(ctx, ownerID, id)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("deleting archived task %s: %w", id, err)
	}
	return nil
}

// Clear removes every archive record of the owner and reports how many
// were deleted.
func (e *Engine) Clear(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, ErrNoOwner
	}
	n, err := e.store.DeleteAllArchivedTasks(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clearing archive: %w", err)
	}
	e.log.Info("archive cleared", "owner", ownerID, "deleted", n)
	return n, nil
}

// Stats computes archive statistics for the owner.
func (e *Engine) Stats(ctx context.Context, ownerID string) (model.ArchiveStats, error) {
	if ownerID == "" {
		return model.ArchiveStats{}, ErrNoOwner
	}
	records, err := e.store.ListArchivedTasks(ctx, ownerID)
	if err != nil {
		return model.ArchiveStats{}, fmt.Errorf("listing archive: %w", err)
	}
	return ComputeStats(records, e.cal.Now()), nil
}

// ComputeStats derives statistics in one pass. The average is rounded to
// the nearest day. On an empty archive both timestamps are now.
func ComputeStats(records []model.ArchivedTask, now time.Time) model.ArchiveStats {
	stats := model.ArchiveStats{OldestMovedAt: now, LatestMovedAt: now}
	if len(records) == 0 {
		return stats
	}

	sum := 0
	for i, r := range records {
		stats.TotalArchived++
		if r.Completed {
			stats.TotalCompleted++
		} else {
			stats.TotalIncomplete++
		}
		sum += r.DaysPastDue
		if r.DaysPastDue > stats.MaxDaysPastDue {
			stats.MaxDaysPastDue = r.DaysPastDue
		}
		if i == 0 || r.MovedAt.Before(stats.OldestMovedAt) {
			stats.OldestMovedAt = r.MovedAt
		}
		if i == 0 || r.MovedAt.After(stats.LatestMovedAt) {
			stats.LatestMovedAt = r.MovedAt
		}
	}
	stats.AvgDaysPastDue = int(math.Round(float64(sum) / float64(len(records))))
	return stats
}
