package model

import (
	"time"

	"github.com/nhle/taskdesk/internal/calendar"
)

// Priority is the user-facing importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PinScope controls which view a pinned task floats to the top of.
// The zero value means the task is not pinned.
type PinScope string

const (
	PinNone      PinScope = ""
	PinToday     PinScope = "today"
	PinYesterday PinScope = "yesterday"
	PinAll       PinScope = "all"
)

// ParsePinScope accepts "today", "yesterday", "all", "none" or "".
func ParsePinScope(s string) (PinScope, bool) {
	switch PinScope(s) {
	case PinToday, PinYesterday, PinAll:
		return PinScope(s), true
	case PinNone, "none":
		return PinNone, true
	}
	return PinNone, false
}

// Task is an item in the owner's active set.
type Task struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DueDate     calendar.DayKey `json:"due_date,omitempty"`
	Priority    Priority        `json:"priority"`
	Completed   bool            `json:"completed"`
	ProjectTags []string        `json:"project_tags"`
	CreatedAt   time.Time       `json:"created_at"`

	// PinnedAt is set iff PinnedScope is not PinNone.
	PinnedScope PinScope   `json:"pinned_scope,omitempty"`
	PinnedAt    *time.Time `json:"pinned_at,omitempty"`

	// OrderIndex is the manual display position; nil sorts last.
	OrderIndex *int `json:"order_index,omitempty"`
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool { return !t.DueDate.IsZero() }

// HasProject reports whether the task is tagged with the given project id.
func (t Task) HasProject(projectID string) bool {
	for _, id := range t.ProjectTags {
		if id == projectID {
			return true
		}
	}
	return false
}

// TaskOrder is one entry of a manual reorder request.
type TaskOrder struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}
