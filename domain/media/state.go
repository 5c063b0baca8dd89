package media

import "sync"

// State is a position in the per-operation state machine:
// idle -> argsBuilt -> processSpawned -> streamingOutput -> completed | failed
type State int

const (
	StateIdle State = iota
	StateArgsBuilt
	StateProcessSpawned
	StateStreamingOutput
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArgsBuilt:
		return "argsBuilt"
	case StateProcessSpawned:
		return "processSpawned"
	case StateStreamingOutput:
		return "streamingOutput"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Lifecycle tracks a State and only ever moves it forward
type Lifecycle struct {
	mu    sync.Mutex
	state State
}

// State returns the current state
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Advance moves to the given state if it lies ahead of the current one.
// Completed is only reachable once a process was spawned. It returns whether
// the transition happened.
func (l *Lifecycle) Advance(to State) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Terminal() || to <= l.state {
		return false
	}
	if to == StateCompleted && l.state < StateProcessSpawned {
		return false
	}
	l.state = to
	return true
}
