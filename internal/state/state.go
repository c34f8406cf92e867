// Package state holds the full application state (task list, wheel
// selection, active session) and its transitions. Methods return new State
// values and perform no I/O; callers persist the result explicitly.
package state

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayoisaiah/roulette/internal/models"
	"github.com/ayoisaiah/roulette/internal/normalize"
	"github.com/ayoisaiah/roulette/internal/session"
)

const idLength = 9

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomID() string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = base36Chars[rand.IntN(len(base36Chars))]
	}

	return string(b)
}

// NewTaskID mints an identifier for a task.
func NewTaskID() string {
	return "task_" + randomID()
}

// NewDeviceID mints an identifier for this installation, embedding the
// creation time.
func NewDeviceID(now time.Time) string {
	return "device_" + randomID() + "_" + strconv.FormatInt(now.UnixMilli(), 36)
}

// State is the application state persisted as a single blob. The active
// session is deliberately excluded from persistence: an interrupted timer
// does not survive a restart.
type State struct {
	LastSyncAt      *time.Time      `json:"last_sync_at"`
	DeviceID        string          `json:"device_id"`
	Tasks           []models.Task   `json:"tasks"`
	SelectedTaskIDs []string        `json:"selected_task_ids"`
	Session         session.Session `json:"-"`
}

// New returns a fresh first-run state with a minted device id.
func New(now time.Time) State {
	return State{
		DeviceID: NewDeviceID(now),
	}
}

// FromBlob rebuilds a State from a persisted AppState blob.
func FromBlob(blob models.AppState) State {
	return State{
		LastSyncAt:      blob.LastSyncAt,
		DeviceID:        blob.DeviceID,
		Tasks:           blob.Tasks,
		SelectedTaskIDs: blob.SelectedTaskIDs,
	}
}

// Blob converts the state to its persisted form, dropping the session.
func (s State) Blob() models.AppState {
	return models.AppState{
		LastSyncAt:      s.LastSyncAt,
		DeviceID:        s.DeviceID,
		Tasks:           s.Tasks,
		SelectedTaskIDs: s.SelectedTaskIDs,
	}
}

// TaskByID looks a task up by its identifier.
func (s State) TaskByID(id string) (models.Task, bool) {
	for _, task := range s.Tasks {
		if task.ID == id {
			return task, true
		}
	}

	return models.Task{}, false
}

// IsSelected reports whether the task is currently on the wheel.
func (s State) IsSelected(id string) bool {
	for _, sel := range s.SelectedTaskIDs {
		if sel == id {
			return true
		}
	}

	return false
}

// SelectedOpenTasks returns the wheel candidates: selected tasks that are
// still open, in task-list order.
func (s State) SelectedOpenTasks() []models.Task {
	var out []models.Task

	for _, task := range s.Tasks {
		if task.Status == models.StatusOpen && s.IsSelected(task.ID) {
			out = append(out, task)
		}
	}

	return out
}

// OpenTasks returns every task still open.
func (s State) OpenTasks() []models.Task {
	var out []models.Task

	for _, task := range s.Tasks {
		if task.Status == models.StatusOpen {
			out = append(out, task)
		}
	}

	return out
}

// AddTasks merges normalized candidates into the task list. Titles that
// already exist keep their first-seen task (case-insensitive match);
// duplicates within the batch collapse the same way. New tasks are
// selected for the wheel immediately. Returns the new state and the tasks
// actually added.
func (s State) AddTasks(candidates []normalize.Task, now time.Time) (State, []models.Task) {
	seen := make(map[string]struct{}, len(s.Tasks))
	for _, task := range s.Tasks {
		seen[strings.ToLower(strings.TrimSpace(task.Title))] = struct{}{}
	}

	var added []models.Task

	for _, cand := range candidates {
		key := strings.ToLower(strings.TrimSpace(cand.Title))
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		task := models.Task{
			ID:         NewTaskID(),
			Title:      cand.Title,
			Energy:     cand.Energy,
			Status:     models.StatusOpen,
			EstMinutes: cand.EstMinutes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		s.Tasks = append(append([]models.Task(nil), s.Tasks...), task)
		s.SelectedTaskIDs = append(append([]string(nil), s.SelectedTaskIDs...), task.ID)
		added = append(added, task)
	}

	return s, added
}

// UpsertTask inserts or replaces a task by id, used by the sync API.
func (s State) UpsertTask(task models.Task, now time.Time) State {
	task.UpdatedAt = now

	tasks := append([]models.Task(nil), s.Tasks...)
	for i, existing := range tasks {
		if existing.ID == task.ID {
			tasks[i] = task
			s.Tasks = tasks

			return s
		}
	}

	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}

	s.Tasks = append(tasks, task)

	return s
}

// Select puts a task on the wheel. Unknown ids and repeats are no-ops.
func (s State) Select(id string) State {
	if _, ok := s.TaskByID(id); !ok || s.IsSelected(id) {
		return s
	}

	s.SelectedTaskIDs = append(append([]string(nil), s.SelectedTaskIDs...), id)

	return s
}

// Deselect removes a task from the wheel.
func (s State) Deselect(id string) State {
	var out []string

	for _, sel := range s.SelectedTaskIDs {
		if sel != id {
			out = append(out, sel)
		}
	}

	s.SelectedTaskIDs = out

	return s
}

// StartTimer begins a session for the given task, replacing any session
// already in progress: the last start wins. Unknown and non-open tasks
// leave the state unchanged.
func (s State) StartTimer(taskID string, now time.Time) State {
	task, ok := s.TaskByID(taskID)
	if !ok || task.Status != models.StatusOpen {
		return s
	}

	s.Session = s.Session.Start(task.ID, task.EstMinutes, now)

	return s
}

// SessionTask resolves the task the session points at, reflecting any
// edits made after the session started.
func (s State) SessionTask() (models.Task, bool) {
	return s.TaskByID(s.Session.TaskID)
}

// PauseTimer, ResumeTimer and ResetTimer delegate to the session machine.
func (s State) PauseTimer(now time.Time) State {
	s.Session = s.Session.Pause(now)
	return s
}

func (s State) ResumeTimer(now time.Time) State {
	s.Session = s.Session.Resume(now)
	return s
}

func (s State) ResetTimer() State {
	s.Session = s.Session.Reset()
	return s
}

// AdjustTimer nudges the clock while a session is active, or the task's
// estimate (one-minute floor) while idle.
func (s State) AdjustTimer(taskID string, delta int, now time.Time) State {
	if s.Session.Active() {
		s.Session = s.Session.AdjustMinutes(delta, now)
		return s
	}

	task, ok := s.TaskByID(taskID)
	if !ok {
		return s
	}

	task.EstMinutes += delta
	if task.EstMinutes < 1 {
		task.EstMinutes = 1
	}

	return s.UpsertTask(task, now)
}

// CompleteTimer finishes the active session, marking the task done on
// success or abandoned otherwise, and returns the history record to
// persist. Completing without an active session is a no-op.
func (s State) CompleteTimer(success bool, now time.Time) (State, *models.SessionRecord) {
	if !s.Session.Active() {
		return s, nil
	}

	task, ok := s.TaskByID(s.Session.TaskID)
	if ok && task.Status == models.StatusOpen {
		if success {
			task.Status = models.StatusDone
		} else {
			task.Status = models.StatusAbandoned
		}

		s = s.UpsertTask(task, now)
	}

	rec := s.Session.Record(uuid.NewString(), task.Title, now, success)
	s.Session = session.Session{}

	return s, &rec
}
