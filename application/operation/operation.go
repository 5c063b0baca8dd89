// Package operation holds the lifecycle shared by the download, stream and
// info façades
package operation

import (
	"context"
	"os"
	"sync"

	"github.com/google/uuid"

	"mediafetch/domain/media"
)

// Tracker follows a session's progress through the lifecycle states
type Tracker struct {
	life media.Lifecycle
}

// NewTracker returns a tracker whose arguments are already built
func NewTracker() *Tracker {
	t := &Tracker{}
	t.life.Advance(media.StateArgsBuilt)
	return t
}

// Attach advances the tracker as s spawns and produces output. The tracker
// observes ahead of other listeners, so they always see the current state.
func (t *Tracker) Attach(s media.Session) {
	s.Observe(media.EventSpawned, func(media.Event) { t.life.Advance(media.StateProcessSpawned) })
	onOutput := func(media.Event) { t.life.Advance(media.StateStreamingOutput) }
	s.Observe(media.EventStdout, onOutput)
	s.Observe(media.EventStderr, onOutput)
}

// Finish moves the tracker to its terminal state
func (t *Tracker) Finish(err error) {
	if err != nil {
		t.life.Advance(media.StateFailed)
		return
	}
	t.life.Advance(media.StateCompleted)
}

// State returns the tracked state
func (t *Tracker) State() media.State { return t.life.State() }

// RunFunc drives a prepared session to a result
type RunFunc[T any] func(ctx context.Context, s media.Session) (T, error)

// Operation is a single awaited yt-dlp invocation. Run spawns at most once;
// concurrent and repeated calls share the same result.
type Operation[T any] struct {
	id      string
	factory media.SessionFactory
	args    []string
	run     RunFunc[T]
	tracker *Tracker

	once sync.Once
	done chan struct{}

	mu       sync.Mutex
	session  media.Session
	cancel   context.CancelFunc
	canceled bool

	result T
	err    error
}

// New prepares an operation for args
func New[T any](factory media.SessionFactory, args []string, run RunFunc[T]) *Operation[T] {
	return &Operation[T]{
		id:      uuid.NewString(),
		factory: factory,
		args:    args,
		run:     run,
		tracker: NewTracker(),
		done:    make(chan struct{}),
	}
}

// ID returns the operation's unique identifier
func (o *Operation[T]) ID() string { return o.id }

// Args returns the argument vector the operation runs with
func (o *Operation[T]) Args() []string { return append([]string(nil), o.args...) }

// State returns the operation's lifecycle state
func (o *Operation[T]) State() media.State { return o.tracker.State() }

// Done is closed once Run finished
func (o *Operation[T]) Done() <-chan struct{} { return o.done }

// Run executes the operation, or waits for the execution already in flight
func (o *Operation[T]) Run(ctx context.Context) (T, error) {
	o.once.Do(func() { o.execute(ctx) })
	<-o.done
	return o.result, o.err
}

// Cancel stops the operation. Cancelling before Run makes Run fail with
// context.Canceled without spawning.
func (o *Operation[T]) Cancel() {
	o.mu.Lock()
	o.canceled = true
	cancel, session := o.cancel, o.session
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if session != nil {
		_ = session.Kill(os.Kill)
	}
}

func (o *Operation[T]) execute(ctx context.Context) {
	defer close(o.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	if o.canceled {
		o.mu.Unlock()
		o.err = context.Canceled
		o.tracker.Finish(o.err)
		return
	}
	o.cancel = cancel
	o.mu.Unlock()

	s, err := o.factory.NewSession(o.args)
	if err != nil {
		o.err = err
		o.tracker.Finish(err)
		return
	}
	o.tracker.Attach(s)

	o.mu.Lock()
	o.session = s
	o.mu.Unlock()

	o.result, o.err = o.run(ctx, s)
	o.tracker.Finish(o.err)
}
