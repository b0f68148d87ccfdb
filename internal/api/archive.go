package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nhle/taskdesk/internal/archive"
	"github.com/nhle/taskdesk/internal/auth"
)

func (s *Server) handleArchiveRun(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	res, err := s.engine.ArchivePastDue(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, runOut(res), http.StatusOK)
}

func runOut(res archive.Result) archiveRunOut {
	out := archiveRunOut{
		Moved:           res.Moved,
		Selected:        res.Selected,
		Inconsistencies: make([]string, 0, len(res.Inconsistencies)),
		Failures:        make([]string, 0, len(res.Failures)),
		Outcome:         string(res.Outcome()),
		Message:         res.Message(),
	}
	for _, i := range res.Inconsistencies {
		out.Inconsistencies = append(out.Inconsistencies, i.Error())
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, f.Error())
	}
	return out
}

func (s *Server) handleListArchive(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	records, err := s.engine.List(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, records, http.StatusOK)
}

func (s *Server) handleArchiveStats(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	stats, err := s.engine.Stats(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, stats, http.StatusOK)
}

func (s *Server) handleDeleteArchived(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	if err := s.engine.Delete(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearArchive(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	n, err := s.engine.Clear(r.Context(), owner)
	if err != nil {
		writeErr(s.log, w, r, err)
		return
	}
	writeJSON(s.log, w, clearOut{Deleted: n}, http.StatusOK)
}
