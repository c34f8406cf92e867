// Package session implements the countdown timer state machine. All
// transitions are pure: they take the wall clock as an argument and return
// a new Session value, leaving persistence to the caller.
package session

import (
	"math"
	"time"

	"github.com/ayoisaiah/roulette/internal/models"
)

const secsPerMinute = 60

// Phase is the lifecycle stage of a timer session.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
)

// Session is the state of a single countdown run against one task. Only
// the task id is held so that edits to the task while the clock runs stay
// visible; callers resolve the full task through the application state.
// The zero value is an idle session with no task.
type Session struct {
	StartedAt time.Time `json:"started_at"`
	EndsAt    time.Time `json:"ends_at"`
	TaskID    string    `json:"task_id"`
	Phase     Phase     `json:"phase"`
	// PausedMinutes caches the remaining time while paused, rounded up
	// to whole minutes.
	PausedMinutes int `json:"paused_minutes"`
	TotalMinutes  int `json:"total_minutes"`
}

// Active reports whether a session is in progress (running or paused).
func (s Session) Active() bool {
	return s.Phase == PhaseRunning || s.Phase == PhasePaused
}

// Start begins a fresh session for the given task and estimate. Any prior
// session state is overwritten: the last start wins.
func (s Session) Start(taskID string, estMinutes int, now time.Time) Session {
	mins := estMinutes
	if mins < 1 {
		mins = 1
	}

	return Session{
		TaskID:       taskID,
		Phase:        PhaseRunning,
		StartedAt:    now,
		EndsAt:       now.Add(time.Duration(mins) * time.Minute),
		TotalMinutes: mins,
	}
}

// Pause freezes a running session, caching the remaining time in whole
// minutes. Pausing anything but a running session is a no-op.
func (s Session) Pause(now time.Time) Session {
	if s.Phase != PhaseRunning {
		return s
	}

	s.Phase = PhasePaused
	s.PausedMinutes = int(math.Ceil(float64(s.Remaining(now)) / secsPerMinute))

	return s
}

// Resume re-arms a paused session from the cached remaining minutes,
// restarting the progress window from now. Resuming anything but a paused
// session is a no-op.
func (s Session) Resume(now time.Time) Session {
	if s.Phase != PhasePaused {
		return s
	}

	s.Phase = PhaseRunning
	s.StartedAt = now
	s.EndsAt = now.Add(time.Duration(s.PausedMinutes) * time.Minute)
	s.PausedMinutes = 0

	return s
}

// Reset clears the clock but keeps the task reference and the estimate,
// leaving the session armed but not started.
func (s Session) Reset() Session {
	return Session{
		TaskID:       s.TaskID,
		TotalMinutes: s.TotalMinutes,
	}
}

// AdjustMinutes nudges the remaining time by delta minutes. A running
// session is re-armed with a 60-second floor; a paused session amends the
// cached minutes with a one-minute floor. Adjusting an idle session is a
// no-op.
func (s Session) AdjustMinutes(delta int, now time.Time) Session {
	switch s.Phase {
	case PhaseRunning:
		remain := s.EndsAt.Sub(now) + time.Duration(delta)*time.Minute
		if remain < time.Minute {
			remain = time.Minute
		}

		s.EndsAt = now.Add(remain)
	case PhasePaused:
		s.PausedMinutes += delta
		if s.PausedMinutes < 1 {
			s.PausedMinutes = 1
		}
	default:
		return s
	}

	s.TotalMinutes += delta
	if s.TotalMinutes < 1 {
		s.TotalMinutes = 1
	}

	return s
}

// Remaining reports the seconds left on the clock, never negative.
func (s Session) Remaining(now time.Time) int {
	switch s.Phase {
	case PhaseRunning:
		secs := int(math.Floor(s.EndsAt.Sub(now).Seconds()))
		if secs < 0 {
			secs = 0
		}

		return secs
	case PhasePaused:
		return s.PausedMinutes * secsPerMinute
	default:
		return 0
	}
}

// Progress reports elapsed time as a whole percentage of the current
// start/end window, clamped to 0-100. A paused session reports against
// its cached remaining time, so the value holds steady while frozen.
func (s Session) Progress(now time.Time) int {
	if !s.Active() {
		return 0
	}

	total := s.EndsAt.Sub(s.StartedAt).Seconds()
	if total <= 0 {
		return 100
	}

	elapsed := now.Sub(s.StartedAt).Seconds()
	if s.Phase == PhasePaused {
		elapsed = total - float64(s.PausedMinutes*secsPerMinute)
	}

	pct := int(math.Floor(elapsed / total * 100))

	if pct < 0 {
		return 0
	}

	if pct > 100 {
		return 100
	}

	return pct
}

// Expired reports whether a running session's clock has hit zero.
func (s Session) Expired(now time.Time) bool {
	return s.Phase == PhaseRunning && s.Remaining(now) == 0
}

// Record captures the outcome of the session as a history entry. The
// reported minutes are the elapsed portion of the plan, at least one for a
// session that ran at all. The title is resolved by the caller so history
// reflects any edits made while the clock ran.
func (s Session) Record(id, title string, now time.Time, success bool) models.SessionRecord {
	elapsed := s.TotalMinutes*secsPerMinute - s.Remaining(now)

	mins := int(math.Round(float64(elapsed) / secsPerMinute))
	if mins < 1 {
		mins = 1
	}

	return models.SessionRecord{
		ID:         id,
		TaskID:     s.TaskID,
		Title:      title,
		StartedAt:  s.StartedAt,
		FinishedAt: now,
		Minutes:    mins,
		Success:    success,
	}
}
