package operation

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"mediafetch/domain/media"
)

// --- Mock implementations for testing ---

// mockSession implements media.Session for testing
type mockSession struct {
	emitter *media.Emitter
	output  *media.ProcessOutput
	err     error

	mu     sync.Mutex
	runs   int
	killed bool
}

func newMockSession(out *media.ProcessOutput, err error) *mockSession {
	return &mockSession{emitter: media.NewEmitter(), output: out, err: err}
}

func (m *mockSession) On(kind media.EventKind, l media.Listener)      { m.emitter.On(kind, l) }
func (m *mockSession) Observe(kind media.EventKind, l media.Listener) { m.emitter.Observe(kind, l) }

func (m *mockSession) Run(ctx context.Context) (*media.ProcessOutput, error) {
	m.mu.Lock()
	m.runs++
	m.mu.Unlock()
	m.emitter.Emit(media.Event{Kind: media.EventSpawned})
	m.emitter.Emit(media.Event{Kind: media.EventStdout, Chunk: []byte("x")})
	return m.output, m.err
}

func (m *mockSession) Stream(ctx context.Context) media.PayloadStream {
	return FailedStream(errors.New("not supported"))
}

func (m *mockSession) Kill(sig os.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.killed = true
	return nil
}

func (m *mockSession) State() media.State { return media.StateIdle }

// mockFactory implements media.SessionFactory for testing
type mockFactory struct {
	session *mockSession
	err     error
	calls   int
}

func (f *mockFactory) NewSession(args []string) (media.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func passthrough(ctx context.Context, s media.Session) (*media.ProcessOutput, error) {
	return s.Run(ctx)
}

func TestOperation_Run(t *testing.T) {
	out := &media.ProcessOutput{Stdout: "ok"}
	factory := &mockFactory{session: newMockSession(out, nil)}
	op := New(factory, []string{"u"}, passthrough)

	if op.State() != media.StateArgsBuilt {
		t.Errorf("expected argsBuilt before run, got %s", op.State())
	}

	var states []media.State
	factory.session.On(media.EventStdout, func(media.Event) { states = append(states, op.State()) })

	got, err := op.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != out {
		t.Errorf("unexpected result %+v", got)
	}
	if op.State() != media.StateCompleted {
		t.Errorf("expected completed, got %s", op.State())
	}
	if len(states) != 1 || states[0] != media.StateStreamingOutput {
		t.Errorf("expected streamingOutput during output, got %v", states)
	}
	select {
	case <-op.Done():
	default:
		t.Error("Done not closed after Run")
	}
}

func TestOperation_RunIsIdempotent(t *testing.T) {
	factory := &mockFactory{session: newMockSession(&media.ProcessOutput{}, nil)}
	op := New(factory, nil, passthrough)

	var wg sync.WaitGroup
	results := make([]*media.ProcessOutput, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = op.Run(context.Background())
		}(i)
	}
	wg.Wait()

	if factory.calls != 1 || factory.session.runs != 1 {
		t.Errorf("expected a single spawn, got %d sessions and %d runs", factory.calls, factory.session.runs)
	}
	for _, r := range results {
		if r != results[0] {
			t.Error("expected every caller to observe the same result")
		}
	}
}

func TestOperation_Failures(t *testing.T) {
	tests := []struct {
		name    string
		factory *mockFactory
		wantErr error
	}{
		{
			name:    "session cannot be created",
			factory: &mockFactory{err: media.ErrBinaryNotConfigured},
			wantErr: media.ErrBinaryNotConfigured,
		},
		{
			name:    "process fails",
			factory: &mockFactory{session: newMockSession(nil, io.ErrUnexpectedEOF)},
			wantErr: io.ErrUnexpectedEOF,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := New(tt.factory, nil, passthrough)
			_, err := op.Run(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if op.State() != media.StateFailed {
				t.Errorf("expected failed, got %s", op.State())
			}
		})
	}
}

func TestOperation_CancelBeforeRun(t *testing.T) {
	factory := &mockFactory{session: newMockSession(&media.ProcessOutput{}, nil)}
	op := New(factory, nil, passthrough)
	op.Cancel()

	if _, err := op.Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if factory.calls != 0 {
		t.Errorf("cancelled operation must not spawn, got %d sessions", factory.calls)
	}
}

func TestOperation_CancelDuringRun(t *testing.T) {
	session := newMockSession(nil, nil)
	factory := &mockFactory{session: session}
	started := make(chan struct{})
	op := New(factory, nil, func(ctx context.Context, s media.Session) (struct{}, error) {
		close(started)
		<-ctx.Done()
		return struct{}{}, ctx.Err()
	})

	errc := make(chan error, 1)
	go func() {
		_, err := op.Run(context.Background())
		errc <- err
	}()
	<-started
	op.Cancel()

	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if !session.killed {
		t.Error("expected the session to be killed")
	}
}

func TestFailedStream(t *testing.T) {
	cause := errors.New("boom")
	st := FailedStream(cause)
	if _, err := st.Bytes(); !errors.Is(err, cause) {
		t.Errorf("Bytes: %v", err)
	}
	if err := st.PipeTo(io.Discard); !errors.Is(err, cause) {
		t.Errorf("PipeTo: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
