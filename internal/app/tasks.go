package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdesk/internal/archive"
	"github.com/nhle/taskdesk/internal/model"
)

// taskChangedMsg is sent after a task write completes.
type taskChangedMsg struct {
	notice string
	err    error
}

// archivedMsg carries the result of an archive run.
type archivedMsg struct {
	result archive.Result
	err    error
}

func (m *Model) createTask(t model.Task) tea.Cmd {
	s := m.store
	t.OwnerID = m.owner
	return func() tea.Msg {
		created, err := s.CreateTask(context.Background(), t)
		return taskChangedMsg{notice: fmt.Sprintf("Added %q", created.Title), err: err}
	}
}

func (m *Model) updateTask(t model.Task) tea.Cmd {
	s := m.store
	t.OwnerID = m.owner
	return func() tea.Msg {
		err := s.UpdateTask(context.Background(), t)
		return taskChangedMsg{notice: fmt.Sprintf("Saved %q", t.Title), err: err}
	}
}

func (m *Model) toggleTask(t model.Task) tea.Cmd {
	s, owner := m.store, m.owner
	return func() tea.Msg {
		updated, err := s.ToggleTask(context.Background(), owner, t.ID)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		verb := "Reopened"
		if updated.Completed {
			verb = "Completed"
		}
		return taskChangedMsg{notice: fmt.Sprintf("%s %q", verb, t.Title)}
	}
}

// nextPin cycles none, today, all and back to none.
func nextPin(scope model.PinScope) model.PinScope {
	switch scope {
	case model.PinNone:
		return model.PinToday
	case model.PinToday:
		return model.PinAll
	default:
		return model.PinNone
	}
}

func (m *Model) cyclePin(t model.Task) tea.Cmd {
	s, owner := m.store, m.owner
	scope := nextPin(t.PinnedScope)
	return func() tea.Msg {
		err := s.PinTask(context.Background(), owner, t.ID, scope)
		notice := fmt.Sprintf("Pinned %q to %s", t.Title, scope)
		if scope == model.PinNone {
			notice = fmt.Sprintf("Unpinned %q", t.Title)
		}
		return taskChangedMsg{notice: notice, err: err}
	}
}

func (m *Model) deleteTask(t model.Task) tea.Cmd {
	s, owner := m.store, m.owner
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), owner, t.ID)
		return taskChangedMsg{notice: fmt.Sprintf("Deleted %q", t.Title), err: err}
	}
}

// archivePastDue moves every past-due task of the owner to the archive.
func (m *Model) archivePastDue() tea.Cmd {
	e, owner := m.engine, m.owner
	return func() tea.Msg {
		res, err := e.ArchivePastDue(context.Background(), owner)
		return archivedMsg{result: res, err: err}
	}
}
