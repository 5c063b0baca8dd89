package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBinaryNotConfigured is returned before spawning when no yt-dlp path is known
	ErrBinaryNotConfigured = errors.New("yt-dlp binary path is not configured")

	// ErrNotStarted is returned when a session is waited on or killed before it started
	ErrNotStarted = errors.New("process has not been started")

	// ErrStreamClosed is reported to the process side when the reader closed the stream early
	ErrStreamClosed = errors.New("stream closed by reader")

	// ErrAlreadyStarted is returned when a session is asked to stream after it started in another mode
	ErrAlreadyStarted = errors.New("process already started")
)

// ExecError describes a failed yt-dlp run. Spawn failures have no exit code;
// ExitCode is -1 in that case and when the process was killed by a signal.
type ExecError struct {
	ExitCode int
	Signal   string
	Stdout   string
	Stderr   string
	Args     []string
	Hint     string
	Err      error
}

// HasExitCode reports whether the process ran and exited on its own
func (e *ExecError) HasExitCode() bool {
	return e.ExitCode >= 0
}

func (e *ExecError) Error() string {
	var b strings.Builder
	switch {
	case errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded):
		fmt.Fprintf(&b, "yt-dlp stopped: %v", e.Err)
		if e.Signal != "" {
			fmt.Fprintf(&b, " (signal %s)", e.Signal)
		}
	case e.HasExitCode():
		fmt.Fprintf(&b, "yt-dlp exited with code %d", e.ExitCode)
	case e.Signal != "":
		fmt.Fprintf(&b, "yt-dlp terminated by signal %s", e.Signal)
	case e.Err != nil:
		fmt.Fprintf(&b, "yt-dlp failed: %v", e.Err)
	default:
		b.WriteString("yt-dlp failed")
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}
	if e.Hint != "" {
		b.WriteString("\n\nHint: ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// SinkError wraps a failure of the destination stdout payload was written to
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("writing payload to sink: %v", e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
