package model

import (
	"time"

	"github.com/nhle/taskdesk/internal/calendar"
)

// ArchivedTask is an immutable snapshot of a Task taken when it was moved
// out of the active set.
type ArchivedTask struct {
	ID             string          `json:"id" yaml:"id"`
	OwnerID        string          `json:"owner_id" yaml:"owner_id"`
	OriginalTaskID string          `json:"original_task_id" yaml:"original_task_id"`
	Title          string          `json:"title" yaml:"title"`
	Description    string          `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate        calendar.DayKey `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Priority       Priority        `json:"priority" yaml:"priority"`
	Completed      bool            `json:"completed" yaml:"completed"`
	ProjectTags    []string        `json:"project_tags" yaml:"project_tags"`

	// ProjectNames are the tag names resolved at archive time. They are
	// kept even if a project is later renamed or deactivated.
	ProjectNames []string `json:"project_names" yaml:"project_names"`

	PinnedScope PinScope   `json:"pinned_scope,omitempty" yaml:"pinned_scope,omitempty"`
	PinnedAt    *time.Time `json:"pinned_at,omitempty" yaml:"pinned_at,omitempty"`
	OrderIndex  *int       `json:"order_index,omitempty" yaml:"order_index,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	MovedAt     time.Time  `json:"moved_at" yaml:"moved_at"`
	DaysPastDue int        `json:"days_past_due" yaml:"days_past_due"`
}

// ArchiveStats summarizes an owner's archive.
type ArchiveStats struct {
	TotalArchived   int       `json:"total_archived" yaml:"total_archived"`
	TotalCompleted  int       `json:"total_completed" yaml:"total_completed"`
	TotalIncomplete int       `json:"total_incomplete" yaml:"total_incomplete"`
	AvgDaysPastDue  int       `json:"avg_days_past_due" yaml:"avg_days_past_due"`
	MaxDaysPastDue  int       `json:"max_days_past_due" yaml:"max_days_past_due"`
	OldestMovedAt   time.Time `json:"oldest_moved_at" yaml:"oldest_moved_at"`
	LatestMovedAt   time.Time `json:"latest_moved_at" yaml:"latest_moved_at"`
}
