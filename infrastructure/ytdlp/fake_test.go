package ytdlp

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
)

// fakeProcess replays canned output
type fakeProcess struct {
	stdout  io.Reader
	stderr  io.Reader
	waitErr error

	mu       sync.Mutex
	status   ExitStatus
	signals  []os.Signal
	onSignal func()
}

func newFakeProcess(stdout, stderr string, code int) *fakeProcess {
	return &fakeProcess{
		stdout: strings.NewReader(stdout),
		stderr: strings.NewReader(stderr),
		status: ExitStatus{Code: code},
	}
}

// newBlockingProcess keeps stdout open until the process is signaled
func newBlockingProcess(payload string) *fakeProcess {
	pr, pw := io.Pipe()
	p := &fakeProcess{stdout: pr, stderr: strings.NewReader("")}
	go func() {
		_, _ = pw.Write([]byte(payload))
	}()
	p.onSignal = func() {
		p.status = ExitStatus{Code: -1, Signal: "killed"}
		pw.Close()
	}
	return p
}

func (p *fakeProcess) Stdout() io.Reader { return p.stdout }
func (p *fakeProcess) Stderr() io.Reader { return p.stderr }
func (p *fakeProcess) Pid() int          { return 4242 }

func (p *fakeProcess) Signal(sig os.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signals = append(p.signals, sig)
	if p.onSignal != nil {
		p.onSignal()
		p.onSignal = nil
	}
	return nil
}

func (p *fakeProcess) Wait() (ExitStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.waitErr
}

func (p *fakeProcess) signalCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.signals)
}

// fakeRunner hands out a single prepared process
type fakeRunner struct {
	proc     *fakeProcess
	startErr error

	mu    sync.Mutex
	calls int
	name  string
	args  []string
}

func (r *fakeRunner) Start(ctx context.Context, name string, args ...string) (Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.name = name
	r.args = args
	if r.startErr != nil {
		return nil, r.startErr
	}
	return r.proc, nil
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newFakeClient(r *fakeRunner) *Client {
	return NewClient(WithBinary("/usr/bin/yt-dlp"), WithCommandRunner(r))
}

// failingWriter rejects every write
type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }
