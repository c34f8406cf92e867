package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Summarize(t *testing.T) {
	tr := New()

	for i := 1; i <= 100; i++ {
		tr.Record("normalize", time.Duration(i)*time.Millisecond)
	}

	got := tr.Summarize()["normalize"]

	assert.Equal(t, 100, got.Count)
	assert.InDelta(t, 50.5, got.MeanMS, 0.01)
	assert.InDelta(t, 50.5, got.P50MS, 0.01)
	assert.InDelta(t, 95.05, got.P95MS, 0.01)
	assert.InDelta(t, 99.01, got.P99MS, 0.01)
}

func TestTracker_SingleSample(t *testing.T) {
	tr := New()
	tr.Record("spin", 7*time.Millisecond)

	got := tr.Summarize()["spin"]

	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 7.0, got.P50MS)
	assert.Equal(t, 7.0, got.P99MS)
}

func TestTracker_CapsSamples(t *testing.T) {
	tr := New()

	for range 1500 {
		tr.Record("normalize", time.Millisecond)
	}

	assert.Equal(t, 1000, tr.Summarize()["normalize"].Count)
}

func TestTracker_Empty(t *testing.T) {
	assert.Empty(t, New().Summarize())
}
