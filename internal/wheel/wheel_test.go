package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectIndex_Deterministic(t *testing.T) {
	cases := []struct {
		name     string
		rotation float64
		segments int
		want     int
	}{
		{"zero rotation lands on first segment", 0, 4, 0},
		{"quarter turn back selects last segment", 90, 4, 3},
		{"half turn selects opposite segment", 180, 4, 2},
		{"full turns are ignored", 6*360 + 90, 4, 3},
		{"single segment always wins", 1234.5, 1, 0},
		{"small rotation stays on first segment", 359, 4, 0},
		{"boundary of second arc", 270, 4, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectIndex(tc.rotation, tc.segments)

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelectIndex_SameRotationSameResult(t *testing.T) {
	rotation := Spin()

	first := SelectIndex(rotation, 7)

	for range 100 {
		assert.Equal(t, first, SelectIndex(rotation, 7))
	}
}

func TestSelectIndex_Clamps(t *testing.T) {
	assert.Equal(t, 0, SelectIndex(123, 0))
	assert.Equal(t, 0, SelectIndex(123, -1))
}

func TestSpin_Range(t *testing.T) {
	for range 1000 {
		rotation := Spin()

		assert.GreaterOrEqual(t, rotation, 5*360.0)
		assert.Less(t, rotation, 11*360.0)
	}
}

func TestPick_Bounds(t *testing.T) {
	for range 1000 {
		got := Pick(5)

		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, 5)
	}

	assert.Equal(t, 0, Pick(0))
}
