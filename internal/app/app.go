// Package app holds the root Bubble Tea model of the terminal UI.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdesk/internal/archive"
	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/keys"
	"github.com/nhle/taskdesk/internal/store"
	"github.com/nhle/taskdesk/internal/ui"
	archiveview "github.com/nhle/taskdesk/internal/ui/archive"
	"github.com/nhle/taskdesk/internal/ui/command"
	helpview "github.com/nhle/taskdesk/internal/ui/help"
	"github.com/nhle/taskdesk/internal/ui/projectmgr"
	"github.com/nhle/taskdesk/internal/ui/taskform"
	"github.com/nhle/taskdesk/internal/ui/tasklist"
	"github.com/nhle/taskdesk/internal/views"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewForm
	ViewProjects
	ViewArchive
	ViewHelp
	ViewCommand
)

// Deps are the collaborators of the root model.
type Deps struct {
	Store    store.Store
	Engine   *archive.Engine
	Calendar *calendar.Normalizer
	Owner    string
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	engine       *archive.Engine
	cal          *calendar.Normalizer
	owner        string
	keys         *keys.KeyMap
	taskList     tasklist.Model
	formView     taskform.Model
	projectView  projectmgr.Model
	archiveView  archiveview.Model
	helpView     helpview.Model
	commandView  command.Model
	notice       string
	ready        bool
}

// New creates the root model for owner.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewList,
		store:       d.Store,
		engine:      d.Engine,
		cal:         d.Calendar,
		owner:       d.Owner,
		keys:        k,
		taskList:    tasklist.New(d.Store, d.Calendar, d.Owner, k, 80, 24),
		formView:    taskform.New(d.Calendar, 80, 24),
		projectView: projectmgr.New(d.Store, d.Owner, k, 80, 24),
		archiveView: archiveview.New(d.Engine, d.Owner, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init loads the task list.
func (m Model) Init() tea.Cmd {
	return m.taskList.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.projectView.SetSize(w, h)
		m.archiveView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case taskform.SubmittedMsg:
		m.currentView = ViewList
		if msg.Edit {
			return m, m.updateTask(msg.Task)
		}
		return m, m.createTask(msg.Task)

	case taskform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case taskChangedMsg:
		m.notice = msg.notice
		if msg.err != nil {
			m.notice = "Error: " + msg.err.Error()
		}
		return m, m.taskList.LoadTasks()

	case archivedMsg:
		if msg.err != nil {
			m.notice = "Error: " + msg.err.Error()
		} else {
			m.notice = msg.result.Message()
		}
		return m, m.taskList.LoadTasks()

	case projectmgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case projectmgr.ChangedMsg:
		return m, m.taskList.LoadTasks()

	case projectmgr.OpenProjectMsg:
		m.currentView = ViewList
		return m, m.taskList.SetView(views.View{Kind: views.KindProject, ProjectID: msg.ProjectID})

	case archiveview.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey runs keys that switch views or act on the selected task.
// Forms and the command palette get every key except the one that closes
// them.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.currentView {
	case ViewForm, ViewProjects, ViewArchive:
		return nil, false
	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return nil, true
		}
		return nil, false
	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
			return nil, true
		}
		return nil, false
	}

	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.open(ViewHelp)
		return nil, true
	case key.Matches(msg, m.keys.Command):
		m.open(ViewCommand)
		m.commandView.SetProjects(m.activeProjectNames())
		return m.commandView.Focus(), true
	case key.Matches(msg, m.keys.Refresh):
		return m.taskList.LoadTasks(), true
	case key.Matches(msg, m.keys.Projects):
		m.open(ViewProjects)
		return m.projectView.Init(), true
	case key.Matches(msg, m.keys.Archive):
		m.open(ViewArchive)
		return m.archiveView.Init(), true
	case key.Matches(msg, m.keys.ArchivePastDue):
		return m.archivePastDue(), true
	case key.Matches(msg, m.keys.New):
		return m.startCreate(), true
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.taskList.SelectedTask()
		if !ok {
			return nil, true
		}
		m.open(ViewForm)
		m.formView.SetProjects(m.taskList.Projects())
		return m.formView.StartEdit(t), true
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.taskList.SelectedTask(); ok {
			return m.toggleTask(t), true
		}
		return nil, true
	case key.Matches(msg, m.keys.Pin):
		if t, ok := m.taskList.SelectedTask(); ok {
			return m.cyclePin(t), true
		}
		return nil, true
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.taskList.SelectedTask(); ok {
			return m.deleteTask(t), true
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) open(v ViewState) {
	m.previousView = m.currentView
	m.currentView = v
}

// startCreate opens the form with a due date matching the current view.
func (m *Model) startCreate() tea.Cmd {
	var day calendar.DayKey
	switch m.taskList.CurrentView().Kind {
	case views.KindToday:
		day = m.cal.Today()
	case views.KindYesterday:
		day = m.cal.Yesterday()
	case views.KindUpcoming:
		day = m.cal.Tomorrow()
	}
	m.open(ViewForm)
	m.formView.SetProjects(m.taskList.Projects())
	return m.formView.StartCreate(day)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewProjects:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewArchive:
		m.archiveView, cmd = m.archiveView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	right := fmt.Sprintf("%s · %s IST", m.owner, m.cal.Today())
	header := m.layout.RenderHeader("Taskdesk", right)
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notice)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewForm:
		return m.formView.View()
	case ViewProjects:
		return m.projectView.View()
	case ViewArchive:
		return m.archiveView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewProjects:
		return "n new | e edit | a deactivate/restore | enter open | esc back"
	case ViewArchive:
		return "d delete | C clear | r refresh | esc back"
	default:
		return "q quit | ? help | n new | x done | p pin | A archive past-due | v archive | tab view"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(line string) tea.Cmd {
	verb, arg := command.Parse(line)
	switch verb {
	case "today", "yesterday", "upcoming", "overdue", "all":
		v, err := views.Parse(verb)
		if err != nil {
			m.notice = err.Error()
			return nil
		}
		return m.taskList.SetView(v)
	case "project":
		id, ok := m.findProject(arg)
		if !ok {
			m.notice = fmt.Sprintf("No active project named %q", arg)
			return nil
		}
		return m.taskList.SetView(views.View{Kind: views.KindProject, ProjectID: id})
	case "date":
		day, err := m.cal.Normalize(arg)
		if err != nil || day.IsZero() {
			m.notice = fmt.Sprintf("Usage: date YYYY-MM-DD (got %q)", arg)
			return nil
		}
		return m.taskList.SetView(views.View{Kind: views.KindDate, Date: day})
	case "archive":
		if arg == "run" {
			return m.archivePastDue()
		}
		m.open(ViewArchive)
		return m.archiveView.Init()
	case "projects":
		m.open(ViewProjects)
		return m.projectView.Init()
	case "new":
		return m.startCreate()
	case "refresh":
		return m.taskList.LoadTasks()
	case "help":
		m.open(ViewHelp)
		return nil
	case "quit", "q":
		return tea.Quit
	default:
		m.notice = fmt.Sprintf("Unknown command %q", line)
		return nil
	}
}

func (m Model) activeProjectNames() []string {
	var names []string
	for _, p := range m.taskList.Projects() {
		if p.Active {
			names = append(names, p.Name)
		}
	}
	return names
}

// findProject matches an active project by name, ignoring case.
func (m Model) findProject(name string) (string, bool) {
	for _, p := range m.taskList.Projects() {
		if p.Active && strings.EqualFold(p.Name, name) {
			return p.ID, true
		}
	}
	return "", false
}
