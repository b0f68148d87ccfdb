package calendar

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTodayUsesRegionalZone(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want DayKey
	}{
		{"utc evening is next day in IST", time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC), "2025-06-11"},
		{"just before IST midnight", time.Date(2025, 6, 10, 18, 29, 59, 0, time.UTC), "2025-06-10"},
		{"exactly IST midnight", time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC), "2025-06-11"},
		{"caller in New York", time.Date(2025, 6, 10, 23, 0, 0, 0, mustZone(t, -4)), "2025-06-11"},
		{"caller in Tokyo", time.Date(2025, 6, 11, 9, 0, 0, 0, mustZone(t, 9)), "2025-06-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(IST, fixedClock(tt.now))
			if got := n.Today(); got != tt.want {
				t.Errorf("Today() = %q, want %q", got, tt.want)
			}
		})
	}
}

func mustZone(t *testing.T, hours int) *time.Location {
	t.Helper()
	return time.FixedZone("test", hours*60*60)
}

func TestTodaySamplesClockOncePerCall(t *testing.T) {
	calls := 0
	n := New(IST, func() time.Time {
		calls++
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	})

	n.Today()
	n.Tomorrow()
	n.Yesterday()

	if calls != 3 {
		t.Fatalf("clock sampled %d times for three calls, want 3", calls)
	}
}

func TestTomorrowAndYesterdayCrossMonthAndYear(t *testing.T) {
	n := New(IST, fixedClock(time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)))

	if got := n.Tomorrow(); got != "2025-01-01" {
		t.Errorf("Tomorrow() = %q, want 2025-01-01", got)
	}
	if got := n.Yesterday(); got != "2024-12-30" {
		t.Errorf("Yesterday() = %q, want 2024-12-30", got)
	}

	leap := New(IST, fixedClock(time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)))
	if got := leap.Tomorrow(); got != "2024-02-29" {
		t.Errorf("leap Tomorrow() = %q, want 2024-02-29", got)
	}
}

func TestNormalize(t *testing.T) {
	n := New(IST, fixedClock(time.Now()))

	tests := []struct {
		in      string
		want    DayKey
		wantErr bool
	}{
		{"2025-03-01", "2025-03-01", false},
		{"  2025-03-01 ", "2025-03-01", false},
		{"", "", false},
		{"2025-03-01T20:00:00Z", "2025-03-02", false},
		{"2025-03-01T10:00:00Z", "2025-03-01", false},
		{"2025-03-01T23:30:00.123+05:30", "2025-03-01", false},
		{"2025-03-01T23:30:00", "2025-03-01", false},
		{"2025-03-01 23:30:00", "2025-03-01", false},
		{"2025-02-30", "", true},
		{"03/01/2025", "", true},
		{"tomorrow", "", true},
	}

	for _, tt := range tests {
		got, err := n.Normalize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Normalize(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDayKeyArithmetic(t *testing.T) {
	d, err := DayKey("2025-01-01").DaysUntil("2025-01-10")
	if err != nil {
		t.Fatalf("DaysUntil: %v", err)
	}
	if d != 9 {
		t.Errorf("DaysUntil = %d, want 9", d)
	}

	back, err := DayKey("2025-03-01").AddDays(-1)
	if err != nil {
		t.Fatalf("AddDays: %v", err)
	}
	if back != "2025-02-28" {
		t.Errorf("AddDays(-1) = %q, want 2025-02-28", back)
	}

	if !DayKey("2025-09-30").Before("2025-10-01") {
		t.Error("2025-09-30 should be before 2025-10-01")
	}
	if _, err := DayKey("bogus").AddDays(1); err == nil {
		t.Error("AddDays on invalid key should fail")
	}
}

func TestLoadLocationFallsBackToIST(t *testing.T) {
	if got := LoadLocation(""); got != IST {
		t.Errorf("LoadLocation(\"\") = %v, want IST", got)
	}
	if got := LoadLocation("Not/AZone"); got != IST {
		t.Errorf("LoadLocation(bad) = %v, want IST", got)
	}
}
