// Package server exposes the task list, wheel and timer over HTTP for the
// companion web pages and the sync API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayoisaiah/roulette/internal/metrics"
	"github.com/ayoisaiah/roulette/internal/state"
	"github.com/ayoisaiah/roulette/store"
)

// Server owns the authoritative in-memory state and writes every change
// through to the store. It assumes a single logical writer: concurrent
// clients are serialized by the state mutex and the last write wins.
type Server struct {
	db      store.DB
	logger  *slog.Logger
	tracker *metrics.Tracker
	now     func() time.Time

	mu sync.Mutex
	st state.State
}

// New loads the persisted state (or initializes a first run) and returns
// a server ready to route requests.
func New(db store.DB, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		db:      db,
		logger:  logger,
		tracker: metrics.New(),
		now:     time.Now,
	}

	blob, ok, err := db.GetState()
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	if ok {
		s.st = state.FromBlob(blob)
	} else {
		s.st = state.New(s.now())

		if err := db.SaveState(s.st.Blob()); err != nil {
			return nil, fmt.Errorf("saving initial state: %w", err)
		}
	}

	return s, nil
}

// Router assembles the navigation pages and the REST API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/add-tasks", s.handleAddTasksPage)
	r.Get("/spin", s.handleSpinPage)
	r.Get("/roulette", s.handleSpinPage)
	r.Get("/timer", s.handleTimerPage)
	r.Post("/timer", s.handleTimerStart)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/normalize", s.handleNormalize)
		r.Get("/tasks", s.handleGetTasks)
		r.Post("/tasks/bulk_upsert", s.handleBulkUpsert)
		r.Post("/session/start", s.handleSessionStart)
		r.Post("/session/finish", s.handleSessionFinish)
		r.Get("/stats", s.handleStats)
		r.Get("/metrics", s.handleMetrics)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "page not found")
	})

	return r
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.InfoContext(ctx, "http server listening", slog.Int("port", port))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

// mutate runs fn against the current state under the lock and persists the
// result when fn reports a change.
func (s *Server) mutate(fn func(st state.State) (state.State, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := fn(s.st)
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	if err := s.db.SaveState(next.Blob()); err != nil {
		return fmt.Errorf("persisting state: %w", err)
	}

	s.st = next

	return nil
}

func (s *Server) snapshot() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.st
}
