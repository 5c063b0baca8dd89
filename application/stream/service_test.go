package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"testing"

	"mediafetch/domain/media"
	"mediafetch/domain/options"
	"mediafetch/domain/parse"
	"mediafetch/infrastructure/ytdlp"
)

// --- Mock implementations for testing ---

// mockProcess implements ytdlp.Process with canned output
type mockProcess struct {
	stdout, stderr string
	code           int
}

func (p *mockProcess) Stdout() io.Reader               { return strings.NewReader(p.stdout) }
func (p *mockProcess) Stderr() io.Reader               { return strings.NewReader(p.stderr) }
func (p *mockProcess) Wait() (ytdlp.ExitStatus, error) { return ytdlp.ExitStatus{Code: p.code}, nil }
func (p *mockProcess) Signal(os.Signal) error          { return nil }
func (p *mockProcess) Pid() int                        { return 1 }

// mockRunner implements ytdlp.CommandRunner for testing
type mockRunner struct {
	proc  *mockProcess
	calls int
}

func (r *mockRunner) Start(ctx context.Context, name string, args ...string) (ytdlp.Process, error) {
	r.calls++
	return r.proc, nil
}

func newTestService(r *mockRunner) *Service {
	return NewService(ytdlp.NewClient(ytdlp.WithBinary("yt-dlp"), ytdlp.WithCommandRunner(r)))
}

func TestArgs(t *testing.T) {
	args := NewService(nil).Args(Request{
		URL:     "https://example.com/v/1",
		Options: options.Options{Output: "ignored.mp4", Raw: []string{"--foo"}},
	})
	want := []string{"-o", "ignored.mp4", "--foo", "-o", "-", "https://example.com/v/1"}
	if !slices.Equal(args, want) {
		t.Errorf("Args() = %v, want %v", args, want)
	}
}

func TestPipeTo(t *testing.T) {
	payload := strings.Repeat("\x1a\x45\xdf\xa3", 20000)
	stderr := parse.ProgressMarker + `{"status":"downloading","downloaded_bytes":512,"total_bytes":1024}` + "\n" +
		parse.ProgressMarker + `{"status":"finished","downloaded_bytes":1024,"total_bytes":1024}` + "\n"
	runner := &mockRunner{proc: &mockProcess{stdout: payload, stderr: stderr}}

	var progress []media.Progress
	op := newTestService(runner).New(Request{
		URL:        "u",
		OnProgress: func(p media.Progress) { progress = append(progress, p) },
	})

	var sink bytes.Buffer
	if err := op.PipeTo(context.Background(), &sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-op.Done()

	if sink.String() != payload {
		t.Errorf("payload mismatch: got %d bytes, want %d", sink.Len(), len(payload))
	}
	if len(progress) != 2 || *progress[0].Percentage != 50 {
		t.Errorf("unexpected progress %+v", progress)
	}
	if op.State() != media.StateCompleted {
		t.Errorf("expected completed, got %s", op.State())
	}
}

func TestBuffer_Failure(t *testing.T) {
	runner := &mockRunner{proc: &mockProcess{stdout: "partial", stderr: "ERROR: Private video", code: 1}}
	op := newTestService(runner).New(Request{URL: "u"})

	data, err := op.Buffer(context.Background())
	var execErr *media.ExecError
	if !errors.As(err, &execErr) || execErr.ExitCode != 1 {
		t.Fatalf("expected ExecError with exit code 1, got %v", err)
	}
	if string(data) != "partial" {
		t.Errorf("unexpected data %q", data)
	}
	<-op.Done()
	if op.State() != media.StateFailed {
		t.Errorf("expected failed, got %s", op.State())
	}
}

func TestStart_SharesProcess(t *testing.T) {
	runner := &mockRunner{proc: &mockProcess{stdout: "abc"}}
	op := newTestService(runner).New(Request{URL: "u"})

	first := op.Start(context.Background())
	if second := op.Start(context.Background()); first != second {
		t.Error("expected Start to return the same stream")
	}
	data, err := first.Bytes()
	if err != nil || string(data) != "abc" {
		t.Fatalf("unexpected Bytes result %q %v", data, err)
	}
	if runner.calls != 1 {
		t.Errorf("expected one spawn, got %d", runner.calls)
	}
}

func TestNoBinary(t *testing.T) {
	op := NewService(ytdlp.NewClient()).New(Request{URL: "u"})
	if err := op.PipeTo(context.Background(), io.Discard); !errors.Is(err, media.ErrBinaryNotConfigured) {
		t.Errorf("expected ErrBinaryNotConfigured, got %v", err)
	}
	<-op.Done()
	if op.State() != media.StateFailed {
		t.Errorf("expected failed, got %s", op.State())
	}
}

func TestCancelBeforeStart(t *testing.T) {
	runner := &mockRunner{proc: &mockProcess{}}
	op := newTestService(runner).New(Request{URL: "u"})
	op.Cancel()

	if _, err := op.Buffer(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if runner.calls != 0 {
		t.Errorf("cancelled stream must not spawn, got %d", runner.calls)
	}
}
