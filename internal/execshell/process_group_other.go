//go:build !unix

package execshell

import (
	"os"
	"os/exec"
)

func configureProcessGroup(command *exec.Cmd) {}

func selectSignaler(process *os.Process) processSignaler {
	return singleProcessSignaler{process: process}
}

func terminationSignal() os.Signal {
	return os.Kill
}
