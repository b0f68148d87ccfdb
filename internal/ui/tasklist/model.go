package tasklist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/keys"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/theme"
	"github.com/nhle/taskdesk/internal/views"
)

// Store is what the task list reads.
type Store interface {
	ListActiveTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	ListProjects(ctx context.Context, ownerID string, includeInactive bool) ([]model.Project, error)
}

// TasksLoadedMsg is sent when tasks have been loaded from the store.
type TasksLoadedMsg struct {
	Tasks    []model.Task
	Projects []model.Project
	Days     views.Days
	Err      error
}

// Tabs are the views cycled with tab and shift+tab.
var Tabs = []views.Kind{
	views.KindToday,
	views.KindYesterday,
	views.KindUpcoming,
	views.KindOverdue,
	views.KindAll,
}

// Model is the active task list.
type Model struct {
	list     list.Model
	store    Store
	cal      *calendar.Normalizer
	owner    string
	keys     *keys.KeyMap
	view     views.View
	tasks    []model.Task
	projects []model.Project
	names    model.ProjectNameIndex
	days     views.Days
	err      error

	// overrides holds manual positions per view, keyed by views.View.String.
	overrides map[string]views.Overrides

	width  int
	height int
}

// New creates a task list showing today's view.
func New(s Store, cal *calendar.Normalizer, owner string, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:      l,
		store:     s,
		cal:       cal,
		owner:     owner,
		keys:      k,
		view:      views.View{Kind: views.KindToday},
		names:     model.ProjectNameIndex{},
		overrides: make(map[string]views.Overrides),
		width:     width,
		height:    height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.tasks = msg.Tasks
		m.projects = msg.Projects
		m.names = model.NewProjectNameIndex(msg.Projects)
		m.days = msg.Days
		return m, m.rebuild()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextView):
			return m, m.cycleView(1)
		case key.Matches(msg, m.keys.PrevView):
			return m, m.cycleView(-1)
		case key.Matches(msg, m.keys.MoveUp):
			return m, m.Move(-1)
		case key.Matches(msg, m.keys.MoveDown):
			return m, m.Move(1)
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// LoadTasks returns a tea.Cmd that reads the active set and the project
// index, and samples today once for the whole load.
func (m Model) LoadTasks() tea.Cmd {
	s, owner, cal := m.store, m.owner, m.cal
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := s.ListActiveTasks(ctx, owner)
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		projects, err := s.ListProjects(ctx, owner, true)
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks, Projects: projects, Days: views.DaysFrom(cal)}
	}
}

// SetView switches to v, keeping each view's manual order.
func (m *Model) SetView(v views.View) tea.Cmd {
	m.view = v
	m.list.Select(0)
	return m.rebuild()
}

// CurrentView returns the view being shown.
func (m Model) CurrentView() views.View {
	return m.view
}

// Projects returns every project of the owner from the last load.
func (m Model) Projects() []model.Project {
	return m.projects
}

// SelectedTask returns the focused task.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Move shifts the focused task by delta positions within the current view.
// The new order is kept as an override for this view only.
func (m *Model) Move(delta int) tea.Cmd {
	items := m.list.Items()
	from := m.list.Index()
	to := from + delta
	if from < 0 || to < 0 || to >= len(items) {
		return nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.(TaskItem).Task.ID
	}
	ids[from], ids[to] = ids[to], ids[from]

	positions := make(views.Overrides, len(ids))
	for i, id := range ids {
		positions[id] = i
	}
	m.overrides[m.view.String()] = positions

	cmd := m.rebuild()
	m.list.Select(to)
	return cmd
}

func (m *Model) cycleView(step int) tea.Cmd {
	idx := 0
	for i, k := range Tabs {
		if k == m.view.Kind {
			idx = i
			break
		}
	}
	idx = (idx + step + len(Tabs)) % len(Tabs)
	return m.SetView(views.View{Kind: Tabs[idx]})
}

// rebuild reruns the view query over the loaded tasks.
func (m *Model) rebuild() tea.Cmd {
	selected := views.Query(m.tasks, m.view, m.days, m.overrides[m.view.String()])
	items := make([]list.Item, len(selected))
	for i, t := range selected {
		items[i] = TaskItem{
			Task:   t,
			Names:  m.names.Resolve(t.ProjectTags),
			Today:  m.days.Today,
			Pinned: views.PinnedIn(m.view, t),
		}
	}
	return m.list.SetItems(items)
}

// View renders the view tabs above the task list.
func (m Model) View() string {
	tabs := m.renderTabs()

	if m.err != nil {
		msg := lipgloss.NewStyle().Foreground(theme.ColorRed).Padding(1, 2).
			Render(fmt.Sprintf("Could not load tasks: %v", m.err))
		return lipgloss.JoinVertical(lipgloss.Left, tabs, msg)
	}
	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, tabs, m.renderEmptyState())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabs, m.list.View())
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(Tabs)+1)
	for _, k := range Tabs {
		label := strings.ToUpper(string(k[:1])) + string(k[1:])
		if k == m.view.Kind {
			parts = append(parts, theme.ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, theme.TabStyle.Render(label))
		}
	}
	if m.view.Kind == views.KindProject {
		name := m.names[m.view.ProjectID]
		if name == "" {
			name = m.view.ProjectID
		}
		parts = append(parts, theme.ActiveTabStyle.Render("Project: "+name))
	}
	if m.view.Kind == views.KindDate {
		parts = append(parts, theme.ActiveTabStyle.Render("Date: "+m.view.Date.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

// renderEmptyState shows guidance text when the view has no tasks.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if len(m.tasks) > 0 {
		return style.Render("Nothing in this view.\nPress tab to switch views.")
	}
	return style.Render("No tasks yet.\n\nPress n to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
