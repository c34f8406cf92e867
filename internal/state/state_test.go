package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/roulette/internal/models"
	"github.com/ayoisaiah/roulette/internal/normalize"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func seedState(t *testing.T, titles ...string) State {
	t.Helper()

	var cands []normalize.Task
	for _, title := range titles {
		cands = append(cands, normalize.Task{
			Title:      title,
			Energy:     models.EnergyMedium,
			EstMinutes: 10,
		})
	}

	s, added := New(testNow).AddTasks(cands, testNow)

	assert.Len(t, added, len(titles))

	return s
}

func TestNew_MintsDeviceID(t *testing.T) {
	s := New(testNow)

	assert.Regexp(t, `^device_[0-9a-z]{9}_[0-9a-z]+$`, s.DeviceID)
	assert.Empty(t, s.Tasks)
}

func TestAddTasks_DedupsByFirstSeenTitle(t *testing.T) {
	s := seedState(t, "Review the metrics", "Water the plants")

	cands := []normalize.Task{
		{Title: "review the metrics", Energy: models.EnergyLow, EstMinutes: 5},
		{Title: "Stretch for a bit", Energy: models.EnergyLow, EstMinutes: 5},
		{Title: "Stretch for a bit", Energy: models.EnergyLow, EstMinutes: 5},
	}

	s, added := s.AddTasks(cands, testNow)

	assert.Len(t, added, 1)
	assert.Equal(t, "Stretch for a bit", added[0].Title)
	assert.Len(t, s.Tasks, 3)

	// The original task keeps its attributes.
	first, ok := s.TaskByID(s.Tasks[0].ID)
	assert.True(t, ok)
	assert.Equal(t, "Review the metrics", first.Title)
	assert.Equal(t, 10, first.EstMinutes)
}

func TestAddTasks_SelectsNewTasks(t *testing.T) {
	s := seedState(t, "Review the metrics")

	assert.Len(t, s.SelectedOpenTasks(), 1)
	assert.True(t, s.IsSelected(s.Tasks[0].ID))
}

func TestSelectDeselect(t *testing.T) {
	s := seedState(t, "Review the metrics", "Water the plants")

	id := s.Tasks[0].ID

	s = s.Deselect(id)
	assert.False(t, s.IsSelected(id))
	assert.Len(t, s.SelectedOpenTasks(), 1)

	s = s.Select(id)
	assert.True(t, s.IsSelected(id))

	// Selecting twice must not duplicate the entry.
	s = s.Select(id)
	assert.Len(t, s.SelectedTaskIDs, 2)

	assert.Equal(t, s, s.Select("task_missing00"))
}

func TestStartTimer_LastCallWins(t *testing.T) {
	s := seedState(t, "Review the metrics", "Water the plants")

	s = s.StartTimer(s.Tasks[0].ID, testNow)
	assert.Equal(t, s.Tasks[0].ID, s.Session.TaskID)

	// Starting again replaces the running session outright.
	s = s.StartTimer(s.Tasks[1].ID, testNow.Add(time.Minute))

	assert.Equal(t, s.Tasks[1].ID, s.Session.TaskID)
	assert.Equal(t, testNow.Add(time.Minute), s.Session.StartedAt)
	assert.Equal(t, 10, s.Session.TotalMinutes)
}

func TestSessionTask_ReflectsEdits(t *testing.T) {
	s := seedState(t, "Review the metrics")
	id := s.Tasks[0].ID

	s = s.StartTimer(id, testNow)

	edited, _ := s.TaskByID(id)
	edited.Title = "Review the quarterly metrics"
	s = s.UpsertTask(edited, testNow.Add(time.Minute))

	task, ok := s.SessionTask()
	assert.True(t, ok)
	assert.Equal(t, "Review the quarterly metrics", task.Title)

	_, rec := s.CompleteTimer(true, testNow.Add(10*time.Minute))
	assert.NotNil(t, rec)
	assert.Equal(t, "Review the quarterly metrics", rec.Title)
}

func TestCompleteTimer_Success(t *testing.T) {
	s := seedState(t, "Review the metrics")
	id := s.Tasks[0].ID

	s = s.StartTimer(id, testNow)
	assert.True(t, s.Session.Active())

	end := testNow.Add(10 * time.Minute)

	s, rec := s.CompleteTimer(true, end)

	assert.False(t, s.Session.Active())
	assert.NotNil(t, rec)
	assert.True(t, rec.Success)
	assert.Equal(t, id, rec.TaskID)
	assert.Equal(t, 10, rec.Minutes)

	task, _ := s.TaskByID(id)
	assert.Equal(t, models.StatusDone, task.Status)
	assert.Empty(t, s.SelectedOpenTasks())
}

func TestCompleteTimer_Abandon(t *testing.T) {
	s := seedState(t, "Review the metrics")
	id := s.Tasks[0].ID

	s = s.StartTimer(id, testNow)
	s, rec := s.CompleteTimer(false, testNow.Add(3*time.Minute))

	assert.NotNil(t, rec)
	assert.False(t, rec.Success)
	assert.Equal(t, 3, rec.Minutes)

	task, _ := s.TaskByID(id)
	assert.Equal(t, models.StatusAbandoned, task.Status)

	// Terminal status: a fresh timer cannot start on the task.
	again := s.StartTimer(id, testNow.Add(time.Hour))
	assert.False(t, again.Session.Active())
}

func TestCompleteTimer_NoSession(t *testing.T) {
	s := seedState(t, "Review the metrics")

	unchanged, rec := s.CompleteTimer(true, testNow)

	assert.Nil(t, rec)
	assert.Equal(t, s.Blob(), unchanged.Blob())
}

func TestAdjustTimer_IdleAmendsEstimate(t *testing.T) {
	s := seedState(t, "Review the metrics")
	id := s.Tasks[0].ID

	s = s.AdjustTimer(id, 5, testNow)

	task, _ := s.TaskByID(id)
	assert.Equal(t, 15, task.EstMinutes)

	s = s.AdjustTimer(id, -30, testNow)

	task, _ = s.TaskByID(id)
	assert.Equal(t, 1, task.EstMinutes)
}

func TestBlobRoundTrip_DropsSession(t *testing.T) {
	s := seedState(t, "Review the metrics")
	s = s.StartTimer(s.Tasks[0].ID, testNow)

	restored := FromBlob(s.Blob())

	assert.False(t, restored.Session.Active())
	assert.Equal(t, s.Tasks, restored.Tasks)
	assert.Equal(t, s.SelectedTaskIDs, restored.SelectedTaskIDs)
	assert.Equal(t, s.DeviceID, restored.DeviceID)
}
