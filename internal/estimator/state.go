package estimator

import (
	"strings"

	"github.com/gcstr/progressive/internal/apperr"
)

// State is the lifecycle position of an Estimator.
type State string

const (
	StateInitial    State = "initial"
	StateInProgress State = "in-progress"
	StateCompleting State = "completing"
	StateComplete   State = "complete"
)

// States lists every state in lifecycle order.
var States = []State{StateInitial, StateInProgress, StateCompleting, StateComplete}

func (s State) String() string { return string(s) }

// Valid reports whether s is one of the four known states.
func (s State) Valid() bool {
	switch s {
	case StateInitial, StateInProgress, StateCompleting, StateComplete:
		return true
	}
	return false
}

// Active reports whether a bar for this state should be visible.
func (s State) Active() bool {
	return s == StateInProgress || s == StateCompleting
}

// ParseState converts the textual form used in data-state attributes back to a State.
func ParseState(s string) (State, error) {
	st := State(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", apperr.New("estimator.ParseState", apperr.InvalidInput, "unknown progress state %q (want one of initial, in-progress, completing, complete)", s)
	}
	return st, nil
}

// Snapshot is a consistent view of an Estimator at one point in time.
type Snapshot struct {
	State State
	Value int
	// Seq increases by one for every published snapshot of an Estimator.
	Seq uint64
}
