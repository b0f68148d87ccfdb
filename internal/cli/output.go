package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/theme"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printTable writes rows as a bordered table, or a placeholder line when
// there are none.
func printTable(w io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func taskRows(tasks []model.Task, names model.ProjectNameIndex) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		rows = append(rows, []string{
			t.ID,
			done,
			t.Title,
			string(t.Priority),
			t.DueDate.String(),
			string(t.PinnedScope),
			strings.Join(names.Resolve(t.ProjectTags), ", "),
		})
	}
	return rows
}

var taskHeaders = []string{"ID", "DONE", "TITLE", "PRIORITY", "DUE", "PIN", "PROJECTS"}

func archivedRows(records []model.ArchivedTask) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		done := " "
		if r.Completed {
			done = "x"
		}
		rows = append(rows, []string{
			r.ID,
			done,
			r.Title,
			r.DueDate.String(),
			fmt.Sprintf("%d", r.DaysPastDue),
			r.MovedAt.Local().Format("2006-01-02 15:04"),
			strings.Join(r.ProjectNames, ", "),
		})
	}
	return rows
}

var archivedHeaders = []string{"ID", "DONE", "TITLE", "DUE", "DAYS LATE", "MOVED", "PROJECTS"}

func printStats(w io.Writer, s model.ArchiveStats) {
	fmt.Fprintf(w, "Archived:     %d (%d completed, %d incomplete)\n", s.TotalArchived, s.TotalCompleted, s.TotalIncomplete)
	fmt.Fprintf(w, "Days late:    avg %d, max %d\n", s.AvgDaysPastDue, s.MaxDaysPastDue)
	if s.TotalArchived > 0 {
		fmt.Fprintf(w, "Moved:        %s .. %s\n",
			s.OldestMovedAt.Local().Format("2006-01-02 15:04"),
			s.LatestMovedAt.Local().Format("2006-01-02 15:04"))
	}
}
