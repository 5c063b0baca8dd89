package media

import (
	"context"
	"io"
	"os"
)

// Session is one yt-dlp process with its listener registry.
// Run and Stream are alternative views; a session spawns at most once.
type Session interface {
	On(kind EventKind, l Listener)
	Observe(kind EventKind, l Listener)
	Run(ctx context.Context) (*ProcessOutput, error)
	Stream(ctx context.Context) PayloadStream
	Kill(sig os.Signal) error
	State() State
}

// SessionFactory creates sessions for argument vectors
type SessionFactory interface {
	NewSession(args []string) (Session, error)
}

// PayloadStream exposes the stdout payload of a streaming session.
// It reaches EOF only after the process exited successfully.
type PayloadStream interface {
	io.ReadCloser

	// PipeTo copies the payload into w and waits for the process
	PipeTo(w io.Writer) error

	// Bytes drains the payload into memory and waits for the process
	Bytes() ([]byte, error)

	// Wait blocks until the process exited
	Wait() error
}
