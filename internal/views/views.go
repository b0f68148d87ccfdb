// Package views selects and orders active tasks for the list views shown
// to the user.
package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/overdue"
)

// Kind names a list view.
type Kind string

const (
	KindToday     Kind = "today"
	KindYesterday Kind = "yesterday"
	KindUpcoming  Kind = "upcoming"
	KindOverdue   Kind = "overdue"
	KindAll       Kind = "all"
	KindProject   Kind = "project"
	KindDate      Kind = "date"
)

// View is a view kind plus its project for KindProject or its day for
// KindDate.
type View struct {
	Kind      Kind
	ProjectID string
	Date      calendar.DayKey
}

// Parse reads "today", "yesterday", "upcoming", "overdue", "all",
// "project:<id>" or "date:<YYYY-MM-DD>".
func Parse(s string) (View, error) {
	s = strings.TrimSpace(s)
	if day, ok := strings.CutPrefix(s, string(KindDate)+":"); ok {
		key, err := calendar.ParseDayKey(day)
		if err != nil {
			return View{}, fmt.Errorf("date view: %v: %w", err, model.ErrInvalidArgs)
		}
		return View{Kind: KindDate, Date: key}, nil
	}
	if id, ok := strings.CutPrefix(s, string(KindProject)+":"); ok {
		if id == "" {
			return View{}, fmt.Errorf("project view needs an id: %w", model.ErrInvalidArgs)
		}
		return View{Kind: KindProject, ProjectID: id}, nil
	}
	switch k := Kind(s); k {
	case KindToday, KindYesterday, KindUpcoming, KindOverdue, KindAll:
		return View{Kind: k}, nil
	}
	return View{}, fmt.Errorf("unknown view %q: %w", s, model.ErrInvalidArgs)
}

// String returns the form accepted by Parse. It also keys per-view
// ordering overrides.
func (v View) String() string {
	switch v.Kind {
	case KindProject:
		return string(KindProject) + ":" + v.ProjectID
	case KindDate:
		return string(KindDate) + ":" + v.Date.String()
	}
	return string(v.Kind)
}

// Days are the reference days a view is evaluated against.
type Days struct {
	Today     calendar.DayKey
	Yesterday calendar.DayKey
}

// DaysFrom samples the normalizer once.
func DaysFrom(cal *calendar.Normalizer) Days {
	today := cal.Today()
	yesterday, err := today.AddDays(-1)
	if err != nil {
		yesterday = cal.Yesterday()
	}
	return Days{Today: today, Yesterday: yesterday}
}

// Overrides maps task ids to manual positions within one view. They come
// from the caller per request; nothing here keeps them between calls.
type Overrides map[string]int

// Query filters tasks to the view and orders them.
func Query(tasks []model.Task, v View, days Days, overrides Overrides) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if Includes(v, t, days) {
			out = append(out, t)
		}
	}
	Sort(out, v, overrides)
	return out
}

// Includes reports whether t belongs in view v. Tasks pinned with scope
// "all" belong in every view.
func Includes(v View, t model.Task, days Days) bool {
	if t.PinnedScope == model.PinAll {
		return true
	}
	switch v.Kind {
	case KindToday:
		return t.DueDate == days.Today || t.PinnedScope == model.PinToday
	case KindYesterday:
		return t.DueDate == days.Yesterday || t.PinnedScope == model.PinYesterday
	case KindUpcoming:
		return !t.Completed && t.HasDueDate() && t.DueDate.After(days.Today)
	case KindOverdue:
		return overdue.IsOverdue(t.DueDate, days.Today)
	case KindAll:
		return true
	case KindProject:
		return t.HasProject(v.ProjectID)
	case KindDate:
		return t.DueDate == v.Date
	}
	return false
}

// DaysWithTasks returns the distinct due days of tasks in ascending order,
// for marking a calendar. Tasks without a due date are skipped.
func DaysWithTasks(tasks []model.Task) []calendar.DayKey {
	seen := make(map[calendar.DayKey]struct{}, len(tasks))
	out := []calendar.DayKey{}
	for _, t := range tasks {
		if !t.HasDueDate() {
			continue
		}
		if _, ok := seen[t.DueDate]; ok {
			continue
		}
		seen[t.DueDate] = struct{}{}
		out = append(out, t.DueDate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// PinnedIn reports whether t floats to the top of v.
func PinnedIn(v View, t model.Task) bool {
	switch t.PinnedScope {
	case model.PinAll:
		return true
	case model.PinToday:
		return v.Kind == KindToday
	case model.PinYesterday:
		return v.Kind == KindYesterday
	}
	return false
}

// Sort orders tasks in place: pinned first (most recently pinned on top),
// then tasks with an override position, then by order index (unset last),
// then newest first.
func Sort(tasks []model.Task, v View, overrides Overrides) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		ap, bp := PinnedIn(v, a), PinnedIn(v, b)
		if ap != bp {
			return ap
		}
		if ap && bp {
			at, bt := pinTime(a), pinTime(b)
			if at != bt {
				return at > bt
			}
		}

		ao, aok := overrides[a.ID]
		bo, bok := overrides[b.ID]
		if aok != bok {
			return aok
		}
		if aok && ao != bo {
			return ao < bo
		}

		if (a.OrderIndex == nil) != (b.OrderIndex == nil) {
			return a.OrderIndex != nil
		}
		if a.OrderIndex != nil && *a.OrderIndex != *b.OrderIndex {
			return *a.OrderIndex < *b.OrderIndex
		}

		return a.CreatedAt.After(b.CreatedAt)
	})
}

func pinTime(t model.Task) int64 {
	if t.PinnedAt == nil {
		return 0
	}
	return t.PinnedAt.UnixNano()
}
