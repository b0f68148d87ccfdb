package taskform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/theme"
)

// SubmittedMsg carries the task built from the form. Edit is set when the
// form was opened on an existing task; Task.ID is then that task's id.
type SubmittedMsg struct {
	Task model.Task
	Edit bool
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    string
	dueDate     string
	projectIDs  []string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	cal      *calendar.Normalizer
	editing  *model.Task
	projects []model.Project
	width    int
	height   int
}

// New creates a new task form model.
func New(cal *calendar.Normalizer, width, height int) Model {
	return Model{
		fb:     &formBindings{priority: string(model.PriorityMedium)},
		cal:    cal,
		width:  width,
		height: height,
	}
}

// SetProjects sets the projects offered as tags.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// StartCreate initializes the form for a new task due on day, which may
// be zero.
func (m *Model) StartCreate(day calendar.DayKey) tea.Cmd {
	m.editing = nil
	*m.fb = formBindings{
		priority: string(model.PriorityMedium),
		dueDate:  day.String(),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editing = &task
	*m.fb = formBindings{
		title:       task.Title,
		description: task.Description,
		priority:    string(task.Priority),
		dueDate:     task.DueDate.String(),
		projectIDs:  append([]string(nil), task.ProjectTags...),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
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
		return m, m.submit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "New Task"
	if m.editing != nil {
		title = "Edit Task"
	}

	content := theme.TitleStyle.Render(title) + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", string(model.PriorityHigh)),
				huh.NewOption("Medium", string(model.PriorityMedium)),
				huh.NewOption("Low", string(model.PriorityLow)),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Due").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(m.validateDue),
	}
	if opts := m.projectOptions(); len(opts) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Projects").
			Options(opts...).
			Value(&m.fb.projectIDs))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight())
}

// projectOptions lists active projects plus any inactive project the task
// is already tagged with, so editing does not silently drop the tag.
func (m *Model) projectOptions() []huh.Option[string] {
	tagged := make(map[string]bool, len(m.fb.projectIDs))
	for _, id := range m.fb.projectIDs {
		tagged[id] = true
	}
	var opts []huh.Option[string]
	for _, p := range m.projects {
		if !p.Active && !tagged[p.ID] {
			continue
		}
		label := p.Name
		if !p.Active {
			label += " (inactive)"
		}
		opts = append(opts, huh.NewOption(label, p.ID).Selected(tagged[p.ID]))
	}
	return opts
}

func (m Model) submit() tea.Cmd {
	due, _ := m.cal.Normalize(m.fb.dueDate)
	task := model.Task{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Priority:    model.Priority(m.fb.priority),
		DueDate:     due,
		ProjectTags: append([]string{}, m.fb.projectIDs...),
	}

	edit := m.editing != nil
	if edit {
		task.ID = m.editing.ID
		task.OwnerID = m.editing.OwnerID
		task.Completed = m.editing.Completed
		task.OrderIndex = m.editing.OrderIndex
	}
	return func() tea.Msg { return SubmittedMsg{Task: task, Edit: edit} }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func (m Model) validateDue(s string) error {
	if _, err := m.cal.Normalize(s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}
