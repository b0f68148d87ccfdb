package model

import (
	"time"

	"github.com/nhle/taskdesk/internal/calendar"
)

// Note is free text attached to a (project, date) scope. An owner has at
// most one note per scope key.
type Note struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	ProjectID   *string         `json:"project_id,omitempty"`
	ProjectName *string         `json:"project_name,omitempty"`
	NoteDate    calendar.DayKey `json:"note_date,omitempty"`
	ScopeKey    string          `json:"scope_key"`
	Text        string          `json:"note_text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
