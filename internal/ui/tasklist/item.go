package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/overdue"
	"github.com/nhle/taskdesk/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task   model.Task
	Names  []string
	Today  calendar.DayKey
	Pinned bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{string(i.Task.Priority)}
	if i.Task.HasDueDate() {
		parts = append(parts, "due "+i.Task.DueDate.String())
	}
	if len(i.Names) > 0 {
		parts = append(parts, strings.Join(i.Names, ", "))
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task lines.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderLine(it, index == m.Index()))
}

func renderLine(it TaskItem, selected bool) string {
	t := it.Task

	prefix := "○"
	if t.Completed {
		prefix = "✓"
	}

	pin := ""
	if it.Pinned {
		pin = theme.PinStyle.Render("📌 ")
	}

	priBadge := theme.PriorityStyle(t.Priority).Render(theme.PriorityLabel(t.Priority))

	projects := ""
	if len(it.Names) > 0 {
		display := it.Names
		if len(display) > 2 {
			display = append(display[:2:2], "…")
		}
		projects = theme.ProjectStyle.Render(" 📁 " + strings.Join(display, ","))
	}

	due := ""
	if t.HasDueDate() {
		due = theme.DueDateStyle.Render(" " + dueLabel(t.DueDate, it.Today))
	}

	late := ""
	if overdue.IsOverdue(t.DueDate, it.Today) {
		late = theme.OverdueStyle.Render(fmt.Sprintf(" OVERDUE %dd", overdue.DaysPastDue(t.DueDate, it.Today)))
	}

	line := fmt.Sprintf("%s %s%s %s%s%s%s", prefix, pin, priBadge, t.Title, projects, due, late)

	if t.Completed {
		line = theme.DimmedStyle.Render(line)
	}
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// dueLabel names nearby days and falls back to "Jan 02".
func dueLabel(due, today calendar.DayKey) string {
	diff, err := today.DaysUntil(due)
	if err != nil {
		return due.String()
	}
	switch diff {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	d, err := due.Date()
	if err != nil {
		return due.String()
	}
	return d.Format("Jan 02")
}
