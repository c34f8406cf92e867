package timer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/roulette/internal/config"
	"github.com/ayoisaiah/roulette/internal/models"
	"github.com/ayoisaiah/roulette/internal/normalize"
	"github.com/ayoisaiah/roulette/internal/state"
	"github.com/ayoisaiah/roulette/store"
)

func testTimer(t *testing.T) (*Timer, *store.Client, string) {
	t.Helper()

	db, err := store.NewClient(filepath.Join(t.TempDir(), "roulette_test.db"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	now := time.Now()

	st, added := state.New(now).AddTasks([]normalize.Task{
		{Title: "Review the metrics", Energy: models.EnergyLow, EstMinutes: 5},
	}, now)

	st = st.StartTimer(added[0].ID, now)

	return New(db, &config.Config{}, st, nil), db, added[0].ID
}

func TestSettle_Success(t *testing.T) {
	tm, db, taskID := testTimer(t)

	tm.settle(true)

	assert.True(t, tm.settled)
	assert.False(t, tm.state.Session.Active())

	task, ok := tm.state.TaskByID(taskID)
	assert.True(t, ok)
	assert.Equal(t, models.StatusDone, task.Status)

	records, err := db.GetSessionRecords(time.Time{}, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.True(t, records[0].Success)

	blob, ok, err := db.GetState()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.StatusDone, blob.Tasks[0].Status)
}

func TestSettle_Abandon(t *testing.T) {
	tm, db, taskID := testTimer(t)

	tm.settle(false)

	task, _ := tm.state.TaskByID(taskID)
	assert.Equal(t, models.StatusAbandoned, task.Status)

	records, err := db.GetSessionRecords(time.Time{}, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestSettle_NoSessionIsNoOp(t *testing.T) {
	tm, db, _ := testTimer(t)

	tm.state = tm.state.ResetTimer()
	tm.settle(true)

	assert.False(t, tm.settled)

	records, err := db.GetSessionRecords(time.Time{}, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.Empty(t, records)
}
