package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/roulette/internal/models"
)

func testClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "roulette_test.db"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func TestState_MissingMeansFirstRun(t *testing.T) {
	c := testClient(t)

	_, ok, err := c.GetState()

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestState_RoundTrip(t *testing.T) {
	c := testClient(t)

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	want := models.AppState{
		DeviceID: "device_abc123def_xyz",
		Tasks: []models.Task{
			{
				ID:         "task_000000001",
				Title:      "Review the metrics",
				Energy:     models.EnergyLow,
				Status:     models.StatusOpen,
				EstMinutes: 10,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		},
		SelectedTaskIDs: []string{"task_000000001"},
	}

	assert.NoError(t, c.SaveState(want))

	got, ok, err := c.GetState()

	assert.NoError(t, err)
	assert.True(t, ok)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state blob mismatch (-want +got):\n%s", diff)
	}
}

func TestState_CorruptBlobMeansFirstRun(t *testing.T) {
	c := testClient(t)

	err := c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(stateKey, []byte("{not json"))
	})
	assert.NoError(t, err)

	got, ok, err := c.GetState()

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got.Tasks)
}

func TestSessionRecords_RangeQuery(t *testing.T) {
	c := testClient(t)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	for i := range 5 {
		rec := models.SessionRecord{
			ID:         "rec",
			TaskID:     "task_000000001",
			Title:      "Review the metrics",
			StartedAt:  base.AddDate(0, 0, i),
			FinishedAt: base.AddDate(0, 0, i).Add(10 * time.Minute),
			Minutes:    10,
			Success:    true,
		}

		assert.NoError(t, c.SaveSessionRecord(rec))
	}

	all, err := c.GetSessionRecords(time.Time{}, base.AddDate(0, 1, 0))
	assert.NoError(t, err)
	assert.Len(t, all, 5)

	window, err := c.GetSessionRecords(
		base.AddDate(0, 0, 1),
		base.AddDate(0, 0, 3).Add(time.Hour),
	)
	assert.NoError(t, err)
	assert.Len(t, window, 3)
	assert.Equal(t, base.AddDate(0, 0, 1), window[0].StartedAt)
}

func TestSessionRecords_OverwriteSameStart(t *testing.T) {
	c := testClient(t)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	first := models.SessionRecord{StartedAt: start, Minutes: 5}
	second := models.SessionRecord{StartedAt: start, Minutes: 8}

	assert.NoError(t, c.SaveSessionRecord(first))
	assert.NoError(t, c.SaveSessionRecord(second))

	got, err := c.GetSessionRecords(time.Time{}, start.Add(time.Hour))

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 8, got[0].Minutes)
}
