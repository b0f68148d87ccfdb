// Package overdue decides whether a due date has passed and by how much.
package overdue

import "github.com/nhle/taskdesk/internal/calendar"

// IsOverdue reports whether due is strictly before today. A task with no
// due date is never overdue, and a task due today is not overdue yet.
func IsOverdue(due, today calendar.DayKey) bool {
	if due.IsZero() {
		return false
	}
	return due.Before(today)
}

// DaysPastDue returns the whole calendar days between due and today.
// It is meaningful only when IsOverdue(due, today) holds, and is then at
// least 1 even if the keys cannot be parsed.
func DaysPastDue(due, today calendar.DayKey) int {
	if !IsOverdue(due, today) {
		return 0
	}
	days, err := due.DaysUntil(today)
	if err != nil || days < 1 {
		return 1
	}
	return days
}
