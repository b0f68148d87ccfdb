package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdesk/internal/keys"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/theme"
)

// Engine is the part of the archive engine this view uses.
type Engine interface {
	List(ctx context.Context, ownerID string) ([]model.ArchivedTask, error)
	Stats(ctx context.Context, ownerID string) (model.ArchiveStats, error)
	Delete(ctx context.Context, ownerID, id string) error
	Clear(ctx context.Context, ownerID string) (int64, error)
}

// CloseMsg signals the parent to close the archive view.
type CloseMsg struct{}

type loadedMsg struct {
	records []model.ArchivedTask
	stats   model.ArchiveStats
	err     error
}

type changedMsg struct {
	notice string
	err    error
}

type pending int

const (
	pendingNone pending = iota
	pendingDelete
	pendingClear
)

type confirmBinding struct {
	ok bool
}

// Model lists archived records, newest move first.
type Model struct {
	engine   Engine
	owner    string
	keys     *keys.KeyMap
	records  []model.ArchivedTask
	stats    model.ArchiveStats
	selected int
	offset   int
	notice   string

	confirm *huh.Form
	cb      *confirmBinding
	action  pending
	target  model.ArchivedTask

	width  int
	height int
}

// New creates the archive view.
func New(e Engine, owner string, k *keys.KeyMap, width, height int) Model {
	return Model{
		engine: e,
		owner:  owner,
		keys:   k,
		cb:     &confirmBinding{},
		width:  width,
		height: height,
	}
}

// Init loads the archive.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Records returns the records from the last load.
func (m Model) Records() []model.ArchivedTask {
	return m.records
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.records = msg.records
		m.stats = msg.stats
		if m.selected >= len(m.records) {
			m.selected = max(len(m.records)-1, 0)
		}
		m.clampOffset()
		return m, nil

	case changedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.notice = msg.notice
		}
		return m, m.load()
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.records)-1 {
			m.selected++
			m.clampOffset()
		}

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.clampOffset()
		}

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m, m.load()

	case key.Matches(msg, m.keys.Delete):
		if m.selected >= len(m.records) {
			return m, nil
		}
		m.target = m.records[m.selected]
		return m.ask(pendingDelete, fmt.Sprintf("Delete %q from the archive?", m.target.Title))

	case key.Matches(msg, m.keys.ClearArchive):
		if len(m.records) == 0 {
			m.notice = "The archive is empty."
			return m, nil
		}
		return m.ask(pendingClear, fmt.Sprintf("Delete all %d archived tasks?", len(m.records)))
	}
	return m, nil
}

func (m Model) ask(action pending, title string) (Model, tea.Cmd) {
	m.cb.ok = false
	m.action = action
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.cb.ok),
		),
	).WithWidth(min(max(m.width-4, 30), 80))
	return m, m.confirm.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Back) {
		m.confirm = nil
		m.action = pendingNone
		return m, nil
	}

	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		action := m.action
		m.confirm = nil
		m.action = pendingNone
		if !m.cb.ok {
			return m, nil
		}
		if action == pendingClear {
			return m, m.clear()
		}
		return m, m.delete(m.target)
	case huh.StateAborted:
		m.confirm = nil
		m.action = pendingNone
		return m, nil
	}
	return m, cmd
}

// View renders the stats header and the record list.
func (m Model) View() string {
	if m.confirm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirm.View())
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Archive"))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		b.WriteString(theme.HelpStyle.Render("The archive is empty. Press A in the task list to archive past-due tasks."))
	} else {
		end := min(m.offset+m.visibleRows(), len(m.records))
		for i := m.offset; i < end; i++ {
			line := renderRecord(m.records[i])
			if i == m.selected {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.notice))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderStats() string {
	s := m.stats
	if s.TotalArchived == 0 {
		return theme.HelpStyle.Render("0 archived")
	}
	return theme.HelpStyle.Render(fmt.Sprintf(
		"%d archived · %d completed · %d incomplete · avg %dd late · max %dd late",
		s.TotalArchived, s.TotalCompleted, s.TotalIncomplete, s.AvgDaysPastDue, s.MaxDaysPastDue,
	))
}

func renderRecord(r model.ArchivedTask) string {
	prefix := "○"
	if r.Completed {
		prefix = "✓"
	}
	pri := theme.PriorityStyle(r.Priority).Render(theme.PriorityLabel(r.Priority))
	line := fmt.Sprintf("%s %s %s", prefix, pri, r.Title)
	if len(r.ProjectNames) > 0 {
		line += theme.ProjectStyle.Render(" 📁 " + strings.Join(r.ProjectNames, ","))
	}
	if !r.DueDate.IsZero() {
		line += theme.DueDateStyle.Render(" due " + r.DueDate.String())
	}
	line += theme.OverdueStyle.Render(fmt.Sprintf(" %dd late", r.DaysPastDue))
	line += theme.HelpStyle.Render(" moved " + r.MovedAt.Format("2006-01-02 15:04"))
	return line
}

func (m Model) visibleRows() int {
	// title, stats, blank line, notice and padding
	return max(m.height-8, 1)
}

func (m *Model) clampOffset() {
	rows := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	m.offset = max(m.offset, 0)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

func (m Model) load() tea.Cmd {
	e, owner := m.engine, m.owner
	return func() tea.Msg {
		ctx := context.Background()
		records, err := e.List(ctx, owner)
		if err != nil {
			return loadedMsg{err: err}
		}
		stats, err := e.Stats(ctx, owner)
		return loadedMsg{records: records, stats: stats, err: err}
	}
}

func (m Model) delete(r model.ArchivedTask) tea.Cmd {
	e, owner := m.engine, m.owner
	return func() tea.Msg {
		err := e.Delete(context.Background(), owner, r.ID)
		return changedMsg{notice: fmt.Sprintf("Deleted %q", r.Title), err: err}
	}
}

func (m Model) clear() tea.Cmd {
	e, owner := m.engine, m.owner
	return func() tea.Msg {
		n, err := e.Clear(context.Background(), owner)
		return changedMsg{notice: fmt.Sprintf("Deleted %d archived task(s)", n), err: err}
	}
}
