package api

import (
	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

type taskIn struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	Priority    string   `json:"priority"`
	Completed   bool     `json:"completed"`
	ProjectTags []string `json:"project_tags"`
}

type pinIn struct {
	Scope string `json:"scope"`
}

type projectIn struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type noteIn struct {
	ProjectID *string `json:"project_id"`
	NoteDate  string  `json:"note_date"`
	Text      string  `json:"note_text"`
}

type viewOut struct {
	View  string       `json:"view"`
	Today string       `json:"today"`
	Tasks []model.Task `json:"tasks"`
}

type daysOut struct {
	Days []calendar.DayKey `json:"days"`
}

type archiveRunOut struct {
	Moved           int      `json:"moved"`
	Selected        int      `json:"selected"`
	Inconsistencies []string `json:"inconsistencies"`
	Failures        []string `json:"failures"`
	Outcome         string   `json:"outcome"`
	Message         string   `json:"message"`
}

type clearOut struct {
	Deleted int64 `json:"deleted"`
}
