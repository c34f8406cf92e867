// Package models defines the data records persisted by the roulette store.
package models

import (
	"time"
)

// Energy is a coarse estimate of the effort a task demands. It is derived
// from keywords during normalization and used only for display.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// Status tracks the lifecycle of a task. Once a task is done or abandoned,
// its status is terminal; a fresh task must be created to retry it.
type Status string

const (
	StatusOpen      Status = "open"
	StatusDone      Status = "done"
	StatusAbandoned Status = "abandoned"
)

// Task is a single entry on the task list.
type Task struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Energy     Energy    `json:"energy"`
	Status     Status    `json:"status"`
	EstMinutes int       `json:"est_minutes"`
}

// AppState is the single persisted state blob. It is read once on startup
// and rewritten after every mutation.
type AppState struct {
	LastSyncAt      *time.Time `json:"last_sync_at"`
	DeviceID        string     `json:"device_id"`
	Tasks           []Task     `json:"tasks"`
	SelectedTaskIDs []string   `json:"selected_task_ids"`
}

// SessionRecord is the stored outcome of a finished timer session. Records
// are keyed by their start time in the sessions bucket and feed the stats
// report.
type SessionRecord struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	Notes      string    `json:"notes,omitempty"`
	Minutes    int       `json:"minutes"`
	Success    bool      `json:"success"`
}
