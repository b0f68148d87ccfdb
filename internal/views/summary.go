package views

import (
	"math"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

// Summary is the dashboard header.
type Summary struct {
	TodayTotal     int `json:"today_total"`
	TodayCompleted int `json:"today_completed"`

	// CompletionPercent is TodayCompleted/TodayTotal rounded, 0 when
	// nothing is due today.
	CompletionPercent int `json:"completion_percent"`

	UpcomingIncomplete int `json:"upcoming_incomplete"`
	Total              int `json:"total"`
}

// Summarize counts tasks due today and ahead.
func Summarize(tasks []model.Task, today calendar.DayKey) Summary {
	var s Summary
	for _, t := range tasks {
		s.Total++
		switch {
		case t.DueDate == today:
			s.TodayTotal++
			if t.Completed {
				s.TodayCompleted++
			}
		case !t.Completed && t.HasDueDate() && t.DueDate.After(today):
			s.UpcomingIncomplete++
		}
	}
	if s.TodayTotal > 0 {
		s.CompletionPercent = int(math.Round(float64(s.TodayCompleted) * 100 / float64(s.TodayTotal)))
	}
	return s
}
