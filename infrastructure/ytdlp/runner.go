package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// ExitStatus describes how a process ended. Code is -1 when it was
// terminated by a signal.
type ExitStatus struct {
	Code   int
	Signal string
}

// Process is a started command whose output streams must be drained
// before Wait is called
type Process interface {
	Stdout() io.Reader
	Stderr() io.Reader
	Wait() (ExitStatus, error)
	Signal(sig os.Signal) error
	Pid() int
}

// CommandRunner defines the interface for starting external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// ExecCommandRunner is the production implementation using os/exec.
// Arguments are passed as an array; no shell is involved.
type ExecCommandRunner struct{}

// Start spawns name with args and inherits the current environment
func (r *ExecCommandRunner) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := newCommand(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// waitDelay bounds how long Wait lingers after cancellation
const waitDelay = 5 * time.Second

// newCommand places the process in its own group so cancellation also
// reaches the ffmpeg children yt-dlp starts
func newCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	configureProcessGroup(cmd)
	cmd.WaitDelay = waitDelay
	return cmd
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }
func (p *execProcess) Pid() int          { return p.cmd.Process.Pid }

// Signal delivers sig to the whole process group
func (p *execProcess) Signal(sig os.Signal) error {
	err := signalGroup(p.cmd.Process, sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// Wait reports a non-zero exit as a status, not an error. The error is
// reserved for failures to wait at all.
func (p *execProcess) Wait() (ExitStatus, error) {
	err := p.cmd.Wait()
	if err == nil {
		return ExitStatus{Code: 0}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return ExitStatus{Code: -1, Signal: ws.Signal().String()}, nil
		}
		return ExitStatus{Code: exitErr.ExitCode()}, nil
	}
	return ExitStatus{Code: -1}, err
}
