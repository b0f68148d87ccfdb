package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdesk/internal/keys"
	"github.com/nhle/taskdesk/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	title := theme.TitleStyle.MarginBottom(1).Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title, helpText, "",
		theme.TitleStyle.Render("Views"), legend(viewLegend), "",
		theme.TitleStyle.Render("Pins"), legend(pinLegend), "",
		theme.HelpStyle.Render("Days roll over at midnight India Standard Time."),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

var viewLegend = [][2]string{
	{"today", "due today or pinned to today"},
	{"yesterday", "due yesterday or pinned to yesterday"},
	{"upcoming", "open tasks due after today"},
	{"overdue", "past due and not yet archived (A archives them)"},
	{"all", "every active task"},
	{"project", "tasks tagged with one project (: project <name>)"},
}

var pinLegend = [][2]string{
	{"today", "floats to the top of the today view"},
	{"all", "floats to the top of every view"},
}

func legend(rows [][2]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			theme.ActiveTabStyle.Width(12).Render(r[0]),
			theme.HelpStyle.Render(r[1]),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
