package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

var days = Days{Today: "2025-06-11", Yesterday: "2025-06-10"}

func at(minute int) *time.Time {
	t := time.Date(2025, 6, 11, 9, minute, 0, 0, time.UTC)
	return &t
}

func idx(i int) *int { return &i }

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{in: "today", want: View{Kind: KindToday}},
		{in: " overdue ", want: View{Kind: KindOverdue}},
		{in: "project:p1", want: View{Kind: KindProject, ProjectID: "p1"}},
		{in: "project:", wantErr: true},
		{in: "date:2025-06-20", want: View{Kind: KindDate, Date: "2025-06-20"}},
		{in: "date:2025-02-30", wantErr: true},
		{in: "date:", wantErr: true},
		{in: "someday", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, model.ErrInvalidArgs) {
				t.Errorf("Parse(%q) err = %v, want ErrInvalidArgs", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Parse(%q) = %+v, %v", tt.in, got, err)
		}
		if got.String() != strings.TrimSpace(tt.in) {
			t.Errorf("String() = %q", got.String())
		}
	}
}

func TestIncludes(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{
		{ID: "due-today", DueDate: "2025-06-11"},
		{ID: "due-yesterday", DueDate: "2025-06-10"},
		{ID: "due-later", DueDate: "2025-06-20"},
		{ID: "done-later", DueDate: "2025-06-20", Completed: true},
		{ID: "undated"},
		{ID: "pinned-today", DueDate: "2025-06-01", PinnedScope: model.PinToday, PinnedAt: at(1)},
		{ID: "pinned-all", PinnedScope: model.PinAll, PinnedAt: at(2)},
		{ID: "tagged", ProjectTags: []string{"p1"}},
	}

	tests := []struct {
		view View
		want []string
	}{
		{View{Kind: KindToday}, []string{"due-today", "pinned-today", "pinned-all"}},
		{View{Kind: KindYesterday}, []string{"due-yesterday", "pinned-all"}},
		{View{Kind: KindUpcoming}, []string{"due-later", "pinned-all"}},
		{View{Kind: KindOverdue}, []string{"due-yesterday", "pinned-today", "pinned-all"}},
		{View{Kind: KindProject, ProjectID: "p1"}, []string{"pinned-all", "tagged"}},
		{View{Kind: KindDate, Date: "2025-06-20"}, []string{"due-later", "done-later", "pinned-all"}},
		{View{Kind: KindDate, Date: "2025-06-11"}, []string{"due-today", "pinned-all"}},
		{View{Kind: KindDate, Date: "2025-07-01"}, []string{"pinned-all"}},
	}
	for _, tt := range tests {
		var got []string
		for _, task := range tasks {
			if Includes(tt.view, task, days) {
				got = append(got, task.ID)
			}
		}
		if !equal(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.view, got, tt.want)
		}
	}
}

func TestDaysWithTasks(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{
		{ID: "a", DueDate: "2025-06-20"},
		{ID: "b", DueDate: "2025-06-11"},
		{ID: "c"},
		{ID: "d", DueDate: "2025-06-20", Completed: true},
		{ID: "e", DueDate: "2024-12-31"},
	}
	got := DaysWithTasks(tasks)
	want := []calendar.DayKey{"2024-12-31", "2025-06-11", "2025-06-20"}
	if len(got) != len(want) {
		t.Fatalf("DaysWithTasks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DaysWithTasks[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if empty := DaysWithTasks(nil); len(empty) != 0 {
		t.Errorf("DaysWithTasks(nil) = %v", empty)
	}
}

func TestQueryOrdering(t *testing.T) {
	t.Parallel()

	created := func(h int) time.Time { return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC) }
	tasks := []model.Task{
		{ID: "plain-old", DueDate: "2025-06-11", CreatedAt: created(1)},
		{ID: "plain-new", DueDate: "2025-06-11", CreatedAt: created(2)},
		{ID: "ordered-2", DueDate: "2025-06-11", OrderIndex: idx(2), CreatedAt: created(3)},
		{ID: "ordered-1", DueDate: "2025-06-11", OrderIndex: idx(1), CreatedAt: created(4)},
		{ID: "pin-early", DueDate: "2025-06-11", PinnedScope: model.PinToday, PinnedAt: at(1), CreatedAt: created(5)},
		{ID: "pin-late", PinnedScope: model.PinAll, PinnedAt: at(5), CreatedAt: created(6)},
		{ID: "override", DueDate: "2025-06-11", OrderIndex: idx(9), CreatedAt: created(7)},
	}

	got := ids(Query(tasks, View{Kind: KindToday}, days, Overrides{"override": 0}))
	want := []string{"pin-late", "pin-early", "override", "ordered-1", "ordered-2", "plain-new", "plain-old"}
	if !equal(got, want) {
		t.Errorf("today order = %v, want %v", got, want)
	}

	// A today pin does not float in the all view.
	got = ids(Query(tasks, View{Kind: KindAll}, days, nil))
	want = []string{"pin-late", "ordered-1", "ordered-2", "override", "pin-early", "plain-new", "plain-old"}
	if !equal(got, want) {
		t.Errorf("all order = %v, want %v", got, want)
	}
}

func TestDaysFrom(t *testing.T) {
	t.Parallel()

	now := func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	d := DaysFrom(calendar.New(calendar.IST, now))
	if d.Today != "2025-03-01" || d.Yesterday != "2025-02-28" {
		t.Errorf("days = %+v", d)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{
		{DueDate: "2025-06-11", Completed: true},
		{DueDate: "2025-06-11"},
		{DueDate: "2025-06-11"},
		{DueDate: "2025-06-12"},
		{DueDate: "2025-06-12", Completed: true},
		{DueDate: "2025-06-01"},
		{},
	}
	got := Summarize(tasks, "2025-06-11")
	want := Summary{TodayTotal: 3, TodayCompleted: 1, CompletionPercent: 33, UpcomingIncomplete: 1, Total: 7}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}

	if empty := Summarize(nil, "2025-06-11"); empty != (Summary{}) {
		t.Errorf("empty summary = %+v", empty)
	}
}
