package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nhle/taskdesk/internal/auth"
	"github.com/nhle/taskdesk/internal/model"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	projects, err := s.store.ListProjects(r.Context(), owner, includeInactive)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, projects, http.StatusOK)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	var in projectIn
	if err := decodeJSON(r, &in); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	p, err := s.store.CreateProject(r.Context(), model.Project{OwnerID: owner, Name: in.Name, Color: in.Color})
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, p, http.StatusCreated)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	var in projectIn
	if err := decodeJSON(r, &in); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	id := mux.Vars(r)["id"]
	existing, err := s.store.GetProject(r.Context(), owner, id)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	if in.Name != "" {
		existing.Name = in.Name
	}
	if in.Color != "" {
		existing.Color = in.Color
	}
	if err := s.store.UpdateProject(r.Context(), *existing); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	updated, err := s.store.GetProject(r.Context(), owner, id)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, updated, http.StatusOK)
}

func (s *Server) handleDeactivateProject(w http.ResponseWriter, r *http.Request) {
	s.setProjectActive(w, r, false)
}

func (s *Server) handleRestoreProject(w http.ResponseWriter, r *http.Request) {
	s.setProjectActive(w, r, true)
}

func (s *Server) setProjectActive(w http.ResponseWriter, r *http.Request, active bool) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	id := mux.Vars(r)["id"]
	if active {
		err = s.store.RestoreProject(r.Context(), owner, id)
	} else {
		err = s.store.DeactivateProject(r.Context(), owner, id)
	}
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	p, err := s.store.GetProject(r.Context(), owner, id)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, p, http.StatusOK)
}
