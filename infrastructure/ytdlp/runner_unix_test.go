//go:build unix

package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"

	"mediafetch/domain/media"
)

// spawnedChild runs the "spawn" helper and returns the session once the
// grandchild reported its pid
func spawnedChild(t *testing.T) (*Session, chan int) {
	t.Helper()
	s, err := helperClient(t).Command(helperArgs("spawn"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pids := make(chan int, 1)
	var seen bytes.Buffer
	s.On(media.EventStdout, func(ev media.Event) {
		seen.Write(ev.Chunk)
		var pid int
		if _, err := fmt.Sscanf(seen.String(), "child %d", &pid); err == nil && pid > 0 {
			select {
			case pids <- pid:
			default:
			}
		}
	})
	return s, pids
}

func assertGone(t *testing.T, pid int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if err := syscall.Kill(pid, 0); errors.Is(err, syscall.ESRCH) {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("grandchild %d still running", pid)
}

func TestExecCommandRunner_CancelKillsProcessGroup(t *testing.T) {
	s, pids := spawnedChild(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan int, 1)
	go func() {
		got <- <-pids
		cancel()
	}()

	start := time.Now()
	_, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("Run returned %s after cancel; grandchild kept the pipes open", elapsed)
	}
	assertGone(t, <-got)
}

func TestSession_KillReachesGrandchildren(t *testing.T) {
	s, pids := spawnedChild(t)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var pid int
	select {
	case pid = <-pids:
	case <-time.After(10 * time.Second):
		t.Fatal("helper never reported its child")
	}

	if err := s.Kill(os.Kill); err != nil {
		t.Fatalf("unexpected kill error: %v", err)
	}
	select {
	case <-s.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("session not done after Kill")
	}
	assertGone(t, pid)
}
