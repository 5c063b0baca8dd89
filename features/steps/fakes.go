//go:build integration

package steps

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"mediafetch/infrastructure/ytdlp"
)

// scriptedProcess replays the output a scenario described
type scriptedProcess struct {
	stdout strings.Builder
	stderr strings.Builder
	code   int
}

func (p *scriptedProcess) Stdout() io.Reader               { return strings.NewReader(p.stdout.String()) }
func (p *scriptedProcess) Stderr() io.Reader               { return strings.NewReader(p.stderr.String()) }
func (p *scriptedProcess) Wait() (ytdlp.ExitStatus, error) { return ytdlp.ExitStatus{Code: p.code}, nil }
func (p *scriptedProcess) Signal(os.Signal) error          { return nil }
func (p *scriptedProcess) Pid() int                        { return 1 }

// scriptedRunner implements ytdlp.CommandRunner for feature scenarios
type scriptedRunner struct {
	mu   sync.Mutex
	proc *scriptedProcess
	args []string
}

func (r *scriptedRunner) Start(ctx context.Context, name string, args ...string) (ytdlp.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.args = args
	return r.proc, nil
}

func (r *scriptedRunner) lastArgs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.args
}

func newScriptedClient(r *scriptedRunner) *ytdlp.Client {
	return ytdlp.NewClient(ytdlp.WithBinary("yt-dlp"), ytdlp.WithCommandRunner(r))
}
