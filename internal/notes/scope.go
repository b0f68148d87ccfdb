// Package notes builds the scope keys that address a single note.
package notes

import (
	"strings"

	"github.com/nhle/taskdesk/internal/calendar"
)

// NullToken stands in for "all projects" or "all time" in a scope key.
const NullToken = "__null__"

// ScopeKey combines an optional project name and an optional day into the
// key that identifies one note per owner. Project names compare
// case-insensitively and ignore surrounding whitespace.
func ScopeKey(projectName *string, day calendar.DayKey) string {
	project := NullToken
	if projectName != nil {
		if p := strings.ToLower(strings.TrimSpace(*projectName)); p != "" {
			project = p
		}
	}

	date := NullToken
	if !day.IsZero() {
		date = string(day)
	}

	return project + "::" + date
}
