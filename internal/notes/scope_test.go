package notes

import (
	"testing"

	"github.com/nhle/taskdesk/internal/calendar"
)

func calendarDay(s string) calendar.DayKey { return calendar.DayKey(s) }

func strPtr(s string) *string { return &s }

func TestScopeKey(t *testing.T) {
	tests := []struct {
		name    string
		project *string
		day     string
		want    string
	}{
		{"all projects all time", nil, "", "__null__::__null__"},
		{"project only", strPtr("Work"), "", "work::__null__"},
		{"date only", nil, "2025-03-01", "__null__::2025-03-01"},
		{"both", strPtr("  Side Project "), "2025-03-01", "side project::2025-03-01"},
		{"blank project is all projects", strPtr("   "), "2025-03-01", "__null__::2025-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopeKey(tt.project, calendarDay(tt.day)); got != tt.want {
				t.Errorf("ScopeKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScopeKeyIsCaseInsensitive(t *testing.T) {
	a := ScopeKey(strPtr("WORK"), "2025-03-01")
	b := ScopeKey(strPtr("work"), "2025-03-01")
	if a != b {
		t.Errorf("scope keys differ by case: %q vs %q", a, b)
	}
}
