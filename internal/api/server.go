// Package api serves the task manager over HTTP for a UI collaborator.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/nhle/taskdesk/internal/archive"
	"github.com/nhle/taskdesk/internal/auth"
	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/notes"
	"github.com/nhle/taskdesk/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Store       store.Store
	Engine      *archive.Engine
	Calendar    *calendar.Normalizer
	Resolver    auth.OwnerResolver
	Logger      *slog.Logger
	CORSOrigins []string
}

// Server holds the HTTP handlers.
type Server struct {
	store    store.Store
	engine   *archive.Engine
	notes    *notes.Service
	cal      *calendar.Normalizer
	resolver auth.OwnerResolver
	log      *slog.Logger
	origins  []string
}

// NewServer creates a Server. Engine and Calendar default when nil.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cal := d.Calendar
	if cal == nil {
		cal = calendar.New(nil, nil)
	}
	engine := d.Engine
	if engine == nil {
		engine = archive.NewEngine(d.Store, cal, archive.WithLogger(log))
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		store:    d.Store,
		engine:   engine,
		notes:    notes.NewService(d.Store),
		cal:      cal,
		resolver: d.Resolver,
		log:      log,
		origins:  origins,
	}
}

// Handler builds the router with logging, CORS and bearer auth applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(s.resolver, func(w http.ResponseWriter, r *http.Request, err error) {
		s.log.Warn("authentication failed", "path", r.URL.Path, "error", err)
		writeErr(s.log, w, r, err)
	}))

	// tasks
	api.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/reorder", s.handleReorderTasks).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/toggle", s.handleToggleTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/pin", s.handlePinTask).Methods(http.MethodPost)

	// views
	api.HandleFunc("/views/{kind}", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/calendar/days", s.handleTaskDays).Methods(http.MethodGet)

	// projects
	api.HandleFunc("/projects", s.handleListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.handleCreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", s.handleUpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}/deactivate", s.handleDeactivateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/restore", s.handleRestoreProject).Methods(http.MethodPost)

	// archive
	api.HandleFunc("/archive", s.handleListArchive).Methods(http.MethodGet)
	api.HandleFunc("/archive", s.handleClearArchive).Methods(http.MethodDelete)
	api.HandleFunc("/archive/stats", s.handleArchiveStats).Methods(http.MethodGet)
	api.HandleFunc("/archive/run", s.handleArchiveRun).Methods(http.MethodPost)
	api.HandleFunc("/archive/{id}", s.handleDeleteArchived).Methods(http.MethodDelete)

	// notes
	api.HandleFunc("/notes", s.handleGetNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.handlePutNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}", s.handleDeleteNote).Methods(http.MethodDelete)

	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	origins := gorillahandlers.AllowedOrigins(s.origins)

	return gorillahandlers.CORS(headers, methods, origins)(r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.log, w, map[string]string{"status": "ok"}, http.StatusOK)
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(rw, r)

		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
