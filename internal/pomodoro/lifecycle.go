package pomodoro

import (
	"github.com/VncsRaniery/habitask-sub001/internal/util"
)

// State is the lifecycle position of a session.
type State string

const (
	Running   State = "running"
	Paused    State = "paused"
	Completed State = "completed"
)

// ErrInvalidTransition is returned in strict mode when an update would move
// a session along an edge the lifecycle does not have.
var ErrInvalidTransition = util.ErrConflict

// transitions lists the allowed edges. Completed is terminal.
var transitions = map[State][]State{
	Running: {Paused, Completed},
	Paused:  {Running, Completed},
}

// ParseState validates a status string from a request or a stored row.
func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case Running, Paused, Completed:
		return st, nil
	}
	return "", util.Invalid("Status inválido")
}

// CanTransition reports whether a session may move from one state to another.
// Staying in the same state is always allowed.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// stateOf derives the state of a stored session. Rows written before the
// status column existed only carry isCompleted.
func stateOf(completed bool, status string) State {
	if completed {
		return Completed
	}
	if st, err := ParseState(status); err == nil && st != Completed {
		return st
	}
	return Running
}
