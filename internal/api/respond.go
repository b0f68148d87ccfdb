package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nhle/taskdesk/internal/model"
)

// writeJSON encodes data before writing the header, so a value that cannot
// be encoded turns into a logged 500 instead of a truncated body.
func writeJSON(log *slog.Logger, w http.ResponseWriter, data any, status int) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Error("encoding response", "status", status, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Warn("writing response", "status", status, "error", err)
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, msg string, status int) {
	writeJSON(log, w, map[string]any{"error": msg}, status)
}

// writeErr maps domain errors to status codes. Unknown errors are logged
// and reported as a bare 500.
func writeErr(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNoOwner):
		writeError(log, w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, model.ErrInvalidArgs):
		writeError(log, w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrNotFound):
		writeError(log, w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrConflict):
		writeError(log, w, err.Error(), http.StatusConflict)
	default:
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(log, w, "internal error", http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", model.ErrInvalidArgs)
	}
	return nil
}
