package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nhle/taskdesk/internal/auth"
	"github.com/nhle/taskdesk/internal/model"
)

// handleGetNotes lists notes by project or by date. With both parameters,
// or neither, it returns the single note for that scope.
func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	projectID := r.URL.Query().Get("project")
	day, err := s.dayParam(r, "date")
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}

	var out any
	switch {
	case projectID != "" && day.IsZero():
		out, err = s.store.ListNotesByProject(r.Context(), owner, projectID)
	case projectID == "" && !day.IsZero():
		out, err = s.store.ListNotesByDate(r.Context(), owner, day)
	default:
		var pid *string
		if projectID != "" {
			pid = &projectID
		}
		out, err = s.notes.Get(r.Context(), owner, pid, day)
	}
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, out, http.StatusOK)
}

func (s *Server) handlePutNote(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	var in noteIn
	if err := decodeJSON(r, &in); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	day, err := s.cal.Normalize(in.NoteDate)
	if err != nil {
		writeErr(s.log, w, r, fmt.Errorf("note_date: %v: %w", err, model.ErrInvalidArgs))
		return
	}
	note, err := s.notes.Set(r.Context(), owner, in.ProjectID, day, in.Text)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, note, http.StatusOK)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	if err := s.store.DeleteNote(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
