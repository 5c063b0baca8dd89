package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"mediafetch/domain/media"
)

// TestHelperProcess is not a real test. It is the child process spawned by
// the exec tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		os.Exit(2)
	}
	switch args[0] {
	case "echo":
		fmt.Fprint(os.Stdout, strings.Join(args[1:], "\n"))
	case "exit":
		code, _ := strconv.Atoi(args[1])
		fmt.Fprint(os.Stderr, "ERROR: Unsupported URL: "+args[2])
		os.Exit(code)
	case "sleep":
		time.Sleep(30 * time.Second)
	case "spawn":
		// a grandchild holding the inherited pipes, like ffmpeg under yt-dlp
		child := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--", "sleep")
		child.Stdout, child.Stderr = os.Stdout, os.Stderr
		if err := child.Start(); err != nil {
			os.Exit(3)
		}
		fmt.Fprintf(os.Stdout, "child %d\n", child.Process.Pid)
		time.Sleep(30 * time.Second)
	}
	os.Exit(0)
}

func helperClient(t *testing.T) *Client {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	return NewClient(WithBinary(os.Args[0]))
}

func helperArgs(args ...string) []string {
	return append([]string{"-test.run=TestHelperProcess", "--"}, args...)
}

func TestExecCommandRunner_NoShell(t *testing.T) {
	c := helperClient(t)
	tricky := []string{"$(echo pwned)", "a b; rm -rf /", "`id`", "*"}
	s, err := c.Command(helperArgs(append([]string{"echo"}, tricky...)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Split(out.Stdout, "\n"); strings.Join(got, "|") != strings.Join(tricky, "|") {
		t.Errorf("arguments were altered: %q", got)
	}
}

func TestExecCommandRunner_ExitCode(t *testing.T) {
	c := helperClient(t)
	s, _ := c.Command(helperArgs("exit", "1", "https://example.com/x"))

	_, err := s.Run(context.Background())
	var execErr *media.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if execErr.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %d", execErr.ExitCode)
	}
	if !strings.Contains(execErr.Error(), "ERROR: Unsupported URL") {
		t.Errorf("message missing stderr: %v", execErr)
	}
}

func TestExecCommandRunner_ContextCancel(t *testing.T) {
	c := helperClient(t)
	s, _ := c.Command(helperArgs("sleep"))

	ctx, cancel := context.WithCancel(context.Background())
	s.On(media.EventSpawned, func(media.Event) { cancel() })
	defer cancel()

	_, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var execErr *media.ExecError
	if errors.As(err, &execErr) && execErr.HasExitCode() {
		t.Errorf("cancelled process must not report an exit code, got %d", execErr.ExitCode)
	}
}

func TestClient_Version(t *testing.T) {
	runner := &fakeRunner{proc: newFakeProcess("2025.01.15\n", "", 0)}
	c := newFakeClient(runner)

	v, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "2025.01.15" {
		t.Errorf("unexpected version %q", v)
	}
	if len(runner.args) != 1 || runner.args[0] != "--version" {
		t.Errorf("unexpected args %v", runner.args)
	}
}

func TestClient_VerifyInstalled(t *testing.T) {
	runner := &fakeRunner{startErr: errors.New("exec: not found")}
	if err := newFakeClient(runner).VerifyInstalled(context.Background()); err == nil {
		t.Error("expected error when yt-dlp cannot be started")
	}
}
