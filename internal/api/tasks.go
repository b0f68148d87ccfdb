package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/nhle/taskdesk/internal/auth"
	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/views"
)

// toTask validates an incoming payload and normalizes its due date to a
// regional day key.
func (s *Server) toTask(in taskIn) (model.Task, error) {
	due, err := s.cal.Normalize(in.DueDate)
	if err != nil {
		return model.Task{}, fmt.Errorf("due_date: %v: %w", err, model.ErrInvalidArgs)
	}
	priority := model.Priority(strings.ToLower(strings.TrimSpace(in.Priority)))
	if priority == "" {
		priority = model.PriorityMedium
	}
	tags := in.ProjectTags
	if tags == nil {
		tags = []string{}
	}
	return model.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     due,
		Priority:    priority,
		Completed:   in.Completed,
		ProjectTags: tags,
	}, nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	tasks, err := s.store.ListActiveTasks(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, tasks, http.StatusOK)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	var in taskIn
	if err := decodeJSON(r, &in); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	task, err := s.toTask(in)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	task.OwnerID = owner

	created, err := s.store.CreateTask(r.Context(), task)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, created, http.StatusCreated)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	id := mux.Vars(r)["id"]

	var in taskIn
	if err := decodeJSON(r, &in); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	existing, err := s.store.GetTask(r.Context(), owner, id)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	task, err := s.toTask(in)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	task.ID = existing.ID
	task.OwnerID = owner
	task.OrderIndex = existing.OrderIndex

	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	updated, err := s.store.GetTask(r.Context(), owner, id)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, updated, http.StatusOK)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	if err := s.store.DeleteTask(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	task, err := s.store.ToggleTask(r.Context(), owner, mux.Vars(r)["id"])
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, task, http.StatusOK)
}

func (s *Server) handlePinTask(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	var in pinIn
	if err := decodeJSON(r, &in); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	scope, ok := model.ParsePinScope(in.Scope)
	if !ok {
		writeError(s.log, w, fmt.Sprintf("unknown pin scope %q", in.Scope), http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.store.PinTask(r.Context(), owner, id, scope); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	task, err := s.store.GetTask(r.Context(), owner, id)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, task, http.StatusOK)
}

func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	var orders []model.TaskOrder
	if err := decodeJSON(r, &orders); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	if err := s.store.ReorderTasks(r.Context(), owner, orders); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleView serves one list view. The project and date views take their
// argument either inline ("date:2025-01-10") or as a query parameter.
// Manual per-view positions may be passed as repeated "order=<task id>"
// query parameters, first position first.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	spec := mux.Vars(r)["kind"]
	q := r.URL.Query()
	switch {
	case spec == string(views.KindProject) && q.Get("project") != "":
		spec += ":" + q.Get("project")
	case spec == string(views.KindDate) && q.Get("date") != "":
		spec += ":" + q.Get("date")
	}
	view, err := views.Parse(spec)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}

	tasks, err := s.store.ListActiveTasks(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}

	overrides := views.Overrides{}
	for i, id := range q["order"] {
		overrides[id] = i
	}
	days := views.DaysFrom(s.cal)

	writeJSON(s.log, w, viewOut{
		View:  view.String(),
		Today: days.Today.String(),
		Tasks: views.Query(tasks, view, days, overrides),
	}, http.StatusOK)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	tasks, err := s.store.ListActiveTasks(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, views.Summarize(tasks, s.cal.Today()), http.StatusOK)
}

// handleTaskDays lists the days that have at least one active task due.
func (s *Server) handleTaskDays(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	tasks, err := s.store.ListActiveTasks(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, daysOut{Days: views.DaysWithTasks(tasks)}, http.StatusOK)
}

// dayParam reads an optional date query parameter as a day key.
func (s *Server) dayParam(r *http.Request, name string) (calendar.DayKey, error) {
	day, err := s.cal.Normalize(r.URL.Query().Get(name))
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", name, err, model.ErrInvalidArgs)
	}
	return day, nil
}
