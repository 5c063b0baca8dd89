package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mediafetch/domain/media"
	"mediafetch/domain/parse"
)

const readChunkSize = 32 * 1024

type mode int

const (
	// modeCapture accumulates stdout and parses it for markers
	modeCapture mode = iota
	// modeSink writes stdout to a caller-provided writer
	modeSink
	// modeStream writes stdout into the pipe behind a Stream
	modeStream
)

// SessionOption configures a Session
type SessionOption func(*Session)

// WithSink routes stdout payload bytes to w instead of capturing them.
// Stdout is not scanned for markers while a sink is set.
func WithSink(w io.Writer) SessionOption {
	return func(s *Session) {
		s.sink = w
	}
}

// Session owns exactly one yt-dlp process. Start/Wait/Kill form the handle
// view, Run the awaited view, Stream the streaming view. Whichever view
// starts first decides how stdout is consumed; the process is never spawned twice.
type Session struct {
	id      string
	binary  string
	args    []string
	runner  CommandRunner
	logger  zerolog.Logger
	emitter *media.Emitter
	life    media.Lifecycle

	sink io.Writer
	pw   *io.PipeWriter
	mode mode

	startOnce  sync.Once
	started    atomic.Bool
	done       chan struct{}
	beforeOnce sync.Once
	afterOnce  sync.Once

	mu   sync.Mutex
	proc Process

	// written by the stdout pump only, read after it finished
	sinkErr error

	output *media.ProcessOutput
	err    error
}

func newSession(c *Client, args []string, opts ...SessionOption) *Session {
	s := &Session{
		id:      uuid.NewString(),
		binary:  c.binary,
		args:    append([]string(nil), args...),
		runner:  c.runner,
		emitter: media.NewEmitter(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = c.logger.With().Str("session", s.id).Logger()
	s.life.Advance(media.StateArgsBuilt)
	return s
}

// ID returns the session's unique identifier
func (s *Session) ID() string { return s.id }

// Args returns the argument vector the process is spawned with
func (s *Session) Args() []string { return append([]string(nil), s.args...) }

// On registers a listener. Listeners run serialized, never concurrently
// with each other, and must not block on Wait.
func (s *Session) On(kind media.EventKind, l media.Listener) {
	s.emitter.On(kind, l)
}

// Observe registers l ahead of every On listener
func (s *Session) Observe(kind media.EventKind, l media.Listener) {
	s.emitter.Observe(kind, l)
}

// State returns the session's lifecycle state
func (s *Session) State() media.State { return s.life.State() }

// Done is closed once the process exited and every event was delivered
func (s *Session) Done() <-chan struct{} { return s.done }

// Start spawns the process without waiting for it. It only fails when the
// process could not be spawned. Calling Start again, or after Run or
// Stream, is a no-op.
func (s *Session) Start(ctx context.Context) error {
	m := modeCapture
	if s.sink != nil {
		m = modeSink
	}
	s.start(ctx, m, nil)

	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()
	if proc == nil {
		return s.err
	}
	return nil
}

// Wait blocks until the process exited and returns its outcome
func (s *Session) Wait() error {
	if !s.started.Load() {
		return media.ErrNotStarted
	}
	<-s.done
	return s.err
}

// Output returns the finished process output, or nil while it is running
func (s *Session) Output() *media.ProcessOutput {
	select {
	case <-s.done:
		return s.output
	default:
		return nil
	}
}

// Run starts the process if needed and waits for it. The output is
// returned even when err is non-nil, unless the process never spawned.
func (s *Session) Run(ctx context.Context) (*media.ProcessOutput, error) {
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	<-s.done
	return s.output, s.err
}

// Stream starts the process with stdout wired into the returned stream.
// If the session already started in another mode the stream fails with
// media.ErrAlreadyStarted.
func (s *Session) Stream(ctx context.Context) media.PayloadStream {
	pr, pw := io.Pipe()
	if !s.start(ctx, modeStream, pw) {
		pw.CloseWithError(media.ErrAlreadyStarted)
		return &Stream{session: s, pr: pr, rejected: true}
	}
	return &Stream{session: s, pr: pr}
}

// Kill sends sig to the process. Killing an exited process is a no-op.
func (s *Session) Kill(sig os.Signal) error {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()
	if proc == nil {
		select {
		case <-s.done:
			return nil
		default:
			return media.ErrNotStarted
		}
	}
	select {
	case <-s.done:
		return nil
	default:
	}
	if err := proc.Signal(sig); err != nil {
		return fmt.Errorf("failed to signal yt-dlp: %w", err)
	}
	return nil
}

func (s *Session) start(ctx context.Context, m mode, pw *io.PipeWriter) bool {
	first := false
	s.startOnce.Do(func() {
		first = true
		s.mode = m
		s.pw = pw
		s.started.Store(true)
		s.spawn(ctx)
	})
	return first
}

func (s *Session) spawn(ctx context.Context) {
	if s.binary == "" {
		s.complete(nil, &media.ExecError{ExitCode: -1, Args: s.args, Err: media.ErrBinaryNotConfigured})
		return
	}

	s.logger.Debug().Str("binary", s.binary).Strs("args", s.args).Msg("starting yt-dlp")
	proc, err := s.runner.Start(ctx, s.binary, s.args...)
	if err != nil {
		execErr := &media.ExecError{ExitCode: -1, Args: s.args, Err: fmt.Errorf("failed to start yt-dlp: %w", err)}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			execErr.Hint = "Install yt-dlp or point MEDIAFETCH_YTDLP at the binary."
		}
		s.complete(nil, execErr)
		return
	}

	s.mu.Lock()
	s.proc = proc
	s.mu.Unlock()

	s.life.Advance(media.StateProcessSpawned)
	s.logger.Debug().Int("pid", proc.Pid()).Msg("yt-dlp spawned")
	s.emitter.Emit(media.Event{Kind: media.EventSpawned})

	go s.supervise(ctx, proc)
}

func (s *Session) supervise(ctx context.Context, proc Process) {
	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.pump(proc.Stdout(), media.EventStdout, &stdout, s.mode != modeCapture)
	}()
	go func() {
		defer wg.Done()
		s.pump(proc.Stderr(), media.EventStderr, &stderr, false)
	}()
	wg.Wait()

	status, waitErr := proc.Wait()
	out := &media.ProcessOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: status.Code,
		Args:     s.args,
	}
	s.complete(out, s.outcome(ctx, out, status, waitErr))
}

// pump drains r. Payload bytes go to the sink or pipe, anything else is
// captured into buf and scanned for markers line by line.
func (s *Session) pump(r io.Reader, kind media.EventKind, buf *bytes.Buffer, payload bool) {
	var lines parse.LineBuffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			data := append([]byte(nil), chunk[:n]...)
			s.life.Advance(media.StateStreamingOutput)
			s.emitter.Emit(media.Event{Kind: kind, Chunk: data})
			if payload {
				s.writePayload(data)
			} else {
				buf.Write(data)
				for _, line := range lines.Write(data) {
					s.handleLine(line)
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug().Err(err).Str("stream", kind.String()).Msg("read ended")
			}
			break
		}
	}
	if line, ok := lines.Flush(); ok {
		s.handleLine(line)
	}
}

// writePayload forwards stdout bytes. After the first write failure the
// process is killed and the rest of its output is discarded.
func (s *Session) writePayload(data []byte) {
	if s.sinkErr != nil {
		return
	}
	w := s.sink
	if s.mode == modeStream {
		w = s.pw
	}
	if _, err := w.Write(data); err != nil {
		s.sinkErr = err
		s.logger.Debug().Err(err).Msg("payload write failed, killing yt-dlp")
		_ = s.Kill(os.Kill)
	}
}

func (s *Session) handleLine(line string) {
	l := parse.Classify(line)
	switch l.Kind {
	case parse.LineProgress:
		s.emitter.Emit(media.Event{Kind: media.EventProgress, Progress: l.Progress})
	case parse.LineBeforeDownload:
		s.beforeOnce.Do(func() {
			s.emitter.Emit(media.Event{Kind: media.EventBeforeDownload, Metadata: l.Metadata})
		})
	case parse.LineAfterDownload:
		s.afterOnce.Do(func() {
			s.emitter.Emit(media.Event{Kind: media.EventAfterDownload, Metadata: l.Metadata})
		})
	}
}

func (s *Session) outcome(ctx context.Context, out *media.ProcessOutput, status ExitStatus, waitErr error) error {
	if s.sinkErr != nil {
		return &media.SinkError{Err: s.sinkErr}
	}
	execErr := &media.ExecError{
		ExitCode: status.Code,
		Signal:   status.Signal,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Args:     s.args,
	}
	switch {
	case ctx.Err() != nil:
		execErr.ExitCode = -1
		execErr.Err = ctx.Err()
	case waitErr != nil:
		execErr.ExitCode = -1
		execErr.Err = fmt.Errorf("failed waiting for yt-dlp: %w", waitErr)
	case status.Signal != "" || status.Code != 0:
	default:
		return nil
	}
	execErr.Hint = hintFor(out.Stderr)
	return execErr
}

func (s *Session) complete(out *media.ProcessOutput, err error) {
	s.output, s.err = out, err
	if err != nil {
		s.life.Advance(media.StateFailed)
		s.logger.Error().Err(err).Msg("yt-dlp failed")
	} else {
		s.life.Advance(media.StateCompleted)
		s.logger.Info().Msg("yt-dlp finished")
	}
	if s.pw != nil {
		s.pw.CloseWithError(err)
	}
	s.emitter.Emit(media.Event{Kind: media.EventExit, Output: out, Err: err})
	close(s.done)
}

// Ensure Session implements media.Session
var _ media.Session = (*Session)(nil)
