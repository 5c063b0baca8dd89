package media

import "sync"

// EventKind enumerates everything a session can report
type EventKind int

const (
	EventSpawned EventKind = iota
	EventStdout
	EventStderr
	EventProgress
	EventBeforeDownload
	EventAfterDownload
	EventExit
)

func (k EventKind) String() string {
	switch k {
	case EventSpawned:
		return "spawned"
	case EventStdout:
		return "stdout"
	case EventStderr:
		return "stderr"
	case EventProgress:
		return "progress"
	case EventBeforeDownload:
		return "before_download"
	case EventAfterDownload:
		return "after_download"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Event carries the payload for one EventKind. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind     EventKind
	Chunk    []byte
	Progress Progress
	Metadata Metadata
	Output   *ProcessOutput
	Err      error
}

// Listener receives events
type Listener func(Event)

// Emitter is a per-session listener registry. Dispatch is serialized so
// listeners never run concurrently with each other.
type Emitter struct {
	mu        sync.Mutex
	observers map[EventKind][]Listener
	listeners map[EventKind][]Listener
	dispatch  sync.Mutex
}

// NewEmitter creates an empty emitter
func NewEmitter() *Emitter {
	return &Emitter{
		observers: make(map[EventKind][]Listener),
		listeners: make(map[EventKind][]Listener),
	}
}

// Observe registers l to run before every listener added with On,
// regardless of registration order
func (e *Emitter) Observe(kind EventKind, l Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers[kind] = append(e.observers[kind], l)
}

// On registers l for events of kind
func (e *Emitter) On(kind EventKind, l Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[kind] = append(e.listeners[kind], l)
}

// Emit delivers ev to every listener registered for ev.Kind
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	ls := append(append([]Listener(nil), e.observers[ev.Kind]...), e.listeners[ev.Kind]...)
	e.mu.Unlock()

	if len(ls) == 0 {
		return
	}
	e.dispatch.Lock()
	defer e.dispatch.Unlock()
	for _, l := range ls {
		l(ev)
	}
}
