package projectmgr

import (
	"context"
	"errors"
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

// Store is what the project manager needs from persistence.
type Store interface {
	ListProjects(ctx context.Context, ownerID string, includeInactive bool) ([]model.Project, error)
	CreateProject(ctx context.Context, project model.Project) (model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) error
	DeactivateProject(ctx context.Context, ownerID, id string) error
	RestoreProject(ctx context.Context, ownerID, id string) error
}

// CloseMsg signals the parent to close the project view.
type CloseMsg struct{}

// ChangedMsg signals that projects were created, renamed, deactivated or
// restored.
type ChangedMsg struct{}

// OpenProjectMsg asks the parent to show the task view of a project.
type OpenProjectMsg struct {
	ProjectID string
}

type projectMode int

const (
	modeList projectMode = iota
	modeForm
)

type formBindings struct {
	name  string
	color string
}

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type projectSavedMsg struct {
	verb string
	err  error
}

// Model is the Bubble Tea model for project management.
type Model struct {
	mode        projectMode
	store       Store
	owner       string
	keys        *keys.KeyMap
	projects    []model.Project
	selectedIdx int
	editing     *model.Project
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new project manager model.
func New(s Store, owner string, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		store: s,
		owner: owner,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads projects from the store.
func (m Model) Init() tea.Cmd {
	return m.loadProjects()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.projects = msg.projects
		if m.selectedIdx >= len(m.projects) {
			m.selectedIdx = max(len(m.projects)-1, 0)
		}
		return m, nil

	case projectSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Project " + msg.verb
		}
		m.mode = modeList
		return m, tea.Batch(m.loadProjects(), func() tea.Msg { return ChangedMsg{} })

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.projects) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.projects)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.projects) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.projects)) % len(m.projects)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.editing = nil
		m.fb.name = ""
		m.fb.color = "#5B9BD5"
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editing = &p
		m.fb.name = p.Name
		m.fb.color = p.Color
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "a":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.toggleActive(p)

	case msg.String() == "enter":
		p, ok := m.selected()
		if !ok || !p.Active {
			return m, nil
		}
		return m, func() tea.Msg { return OpenProjectMsg{ProjectID: p.ID} }
	}
	return m, nil
}

func (m Model) selected() (model.Project, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.projects) {
		return model.Project{}, false
	}
	return m.projects[m.selectedIdx], true
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Color").
				Placeholder("#5B9BD5").
				Value(&m.fb.color),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.saveProject()
	case huh.StateAborted:
		m.form = nil
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the project manager.
func (m Model) View() string {
	if m.mode == modeForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		b.WriteString(theme.HelpStyle.Render("No projects yet. Press 'n' to create one."))
	} else {
		for i, p := range m.projects {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("■")
			label := fmt.Sprintf("%s  %s", swatch, p.Name)
			if !p.Active {
				label += theme.HelpStyle.Render(" (inactive)")
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func (m Model) loadProjects() tea.Cmd {
	s, owner := m.store, m.owner
	return func() tea.Msg {
		projects, err := s.ListProjects(context.Background(), owner, true)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m Model) saveProject() tea.Cmd {
	s, owner := m.store, m.owner
	name, color := m.fb.name, m.fb.color
	editing := m.editing
	return func() tea.Msg {
		ctx := context.Background()
		if editing == nil {
			_, err := s.CreateProject(ctx, model.Project{OwnerID: owner, Name: name, Color: color})
			return projectSavedMsg{verb: "created", err: err}
		}
		p := *editing
		p.Name = name
		p.Color = color
		return projectSavedMsg{verb: "saved", err: s.UpdateProject(ctx, p)}
	}
}

func (m Model) toggleActive(p model.Project) tea.Cmd {
	s, owner := m.store, m.owner
	return func() tea.Msg {
		ctx := context.Background()
		if p.Active {
			return projectSavedMsg{verb: "deactivated", err: s.DeactivateProject(ctx, owner, p.ID)}
		}
		return projectSavedMsg{verb: "restored", err: s.RestoreProject(ctx, owner, p.ID)}
	}
}
