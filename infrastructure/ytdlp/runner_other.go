//go:build !unix

package ytdlp

import (
	"os"
	"os/exec"
)

func configureProcessGroup(cmd *exec.Cmd) {}

func signalGroup(p *os.Process, sig os.Signal) error {
	return p.Signal(sig)
}
