// Package wheel implements random task selection, both the presentational
// spinning-wheel draw and an instant uniform pick.
package wheel

import (
	"math"
	"math/rand/v2"
)

const (
	minTurns   = 5
	extraTurns = 5
	fullCircle = 360.0
)

// Spin draws a total wheel rotation: between five and ten full turns plus
// a uniform final angle. The extra turns are purely presentational; only
// the final angle decides the winner.
func Spin() float64 {
	turns := float64(minTurns) + rand.Float64()*float64(extraTurns)

	return turns*fullCircle + rand.Float64()*fullCircle
}

// SelectIndex maps a total rotation onto the index of the winning segment
// of an n-segment wheel. The pointer sits at the top, so the winning
// segment is the one the wheel carried up to it. Out-of-range results fall
// back to the first segment.
func SelectIndex(totalRotation float64, n int) int {
	if n <= 0 {
		return 0
	}

	normalized := math.Mod(fullCircle-math.Mod(totalRotation, fullCircle), fullCircle)
	segment := fullCircle / float64(n)

	idx := int(math.Floor(normalized / segment))
	if idx < 0 || idx >= n {
		return 0
	}

	return idx
}

// Pick selects a segment uniformly without the spin presentation.
func Pick(n int) int {
	if n <= 0 {
		return 0
	}

	return rand.IntN(n)
}
