package estimator

import "math/rand/v2"

const (
	// MaxValue is the value of a finished run. Only Done reaches it.
	MaxValue = 100
	// StepCeiling caps what stepping alone can produce.
	StepCeiling = 99

	firstJump  = 15
	slowdownAt = 50
)

// Rand yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// between returns a uniformly random integer in [lo, hi].
func between(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// Increment is how far one step moves the value from current.
//
//   - current == 0: a fixed 15, so the bar shows movement immediately
//   - current < 50: random in [1, 10]
//   - otherwise:    random in [1, 5]
func Increment(current int, r Rand) int {
	switch {
	case current == 0:
		return firstJump
	case current < slowdownAt:
		return between(r, 1, 10)
	default:
		return between(r, 1, 5)
	}
}

// NextValue applies one step to current, never exceeding StepCeiling.
func NextValue(current int, r Rand) int {
	return min(current+Increment(current, r), StepCeiling)
}
