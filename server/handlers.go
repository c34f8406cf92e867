package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayoisaiah/roulette/internal/models"
	"github.com/ayoisaiah/roulette/internal/normalize"
	"github.com/ayoisaiah/roulette/internal/state"
	"github.com/ayoisaiah/roulette/stats"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}

	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	st := s.snapshot()

	writeJSON(w, http.StatusOK, map[string]string{
		"device_id": st.DeviceID,
	})
}

type normalizeRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest

	if !decode(w, r, &req) {
		return
	}

	var result normalize.Result

	s.tracker.Time("normalize", func() {
		result = normalize.Text(req.Text)
	})

	writeJSON(w, http.StatusOK, result)
}

type tasksResponse struct {
	Tasks           []models.Task `json:"tasks"`
	SelectedTaskIDs []string      `json:"selected_task_ids"`
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	st := s.snapshot()

	writeJSON(w, http.StatusOK, tasksResponse{
		Tasks:           st.Tasks,
		SelectedTaskIDs: st.SelectedTaskIDs,
	})
}

type bulkUpsertRequest struct {
	Tasks           []models.Task `json:"tasks"`
	SelectedTaskIDs []string      `json:"selected_task_ids"`
	LastSyncAt      *time.Time    `json:"last_sync_at"`
}

func (s *Server) handleBulkUpsert(w http.ResponseWriter, r *http.Request) {
	var req bulkUpsertRequest

	if !decode(w, r, &req) {
		return
	}

	now := s.now()

	err := s.mutate(func(st state.State) (state.State, bool, error) {
		for _, task := range req.Tasks {
			if task.ID == "" {
				task.ID = state.NewTaskID()
			}

			st = st.UpsertTask(task, now)
		}

		if req.SelectedTaskIDs != nil {
			st.SelectedTaskIDs = req.SelectedTaskIDs
		}

		st.LastSyncAt = &now

		return st, true, nil
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "bulk upsert failed", slogErr(err))
		writeError(w, http.StatusInternalServerError, "could not save tasks")

		return
	}

	st := s.snapshot()

	writeJSON(w, http.StatusOK, tasksResponse{
		Tasks:           st.Tasks,
		SelectedTaskIDs: st.SelectedTaskIDs,
	})
}

type sessionStartRequest struct {
	TaskID string `json:"task_id"`
}

type sessionResponse struct {
	TaskID           string `json:"task_id"`
	Title            string `json:"title"`
	Phase            string `json:"phase"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Progress         int    `json:"progress"`
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req sessionStartRequest

	if !decode(w, r, &req) {
		return
	}

	now := s.now()

	var started bool

	// A start while another session is running simply replaces it; the
	// only refusal is an unknown or finished task.
	err := s.mutate(func(st state.State) (state.State, bool, error) {
		next := st.StartTimer(req.TaskID, now)
		started = next.Session.Active() && next.Session.TaskID == req.TaskID

		return next, started, nil
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "session start failed", slogErr(err))
		writeError(w, http.StatusInternalServerError, "could not start session")

		return
	}

	if !started {
		writeError(w, http.StatusConflict, "no startable task with that id")
		return
	}

	st := s.snapshot()
	task, _ := st.SessionTask()

	writeJSON(w, http.StatusCreated, sessionResponse{
		TaskID:           st.Session.TaskID,
		Title:            task.Title,
		Phase:            string(st.Session.Phase),
		RemainingSeconds: st.Session.Remaining(now),
		Progress:         st.Session.Progress(now),
	})
}

type sessionFinishRequest struct {
	Success bool `json:"success"`
}

func (s *Server) handleSessionFinish(w http.ResponseWriter, r *http.Request) {
	var req sessionFinishRequest

	if !decode(w, r, &req) {
		return
	}

	now := s.now()

	var rec *models.SessionRecord

	err := s.mutate(func(st state.State) (state.State, bool, error) {
		next, record := st.CompleteTimer(req.Success, now)
		rec = record

		return next, record != nil, nil
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "session finish failed", slogErr(err))
		writeError(w, http.StatusInternalServerError, "could not finish session")

		return
	}

	if rec == nil {
		writeError(w, http.StatusConflict, "no active session")
		return
	}

	if err := s.db.SaveSessionRecord(*rec); err != nil {
		s.logger.ErrorContext(r.Context(), "saving session record failed", slogErr(err))
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.GetSessionRecords(time.Time{}, s.now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "loading session records failed", slogErr(err))
		writeError(w, http.StatusInternalServerError, "could not load stats")

		return
	}

	writeJSON(w, http.StatusOK, stats.Compute(records, s.now()))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Summarize())
}
