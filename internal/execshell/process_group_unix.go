//go:build unix

package execshell

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

const processGroupStrategyNameConstant = "process_group"

func configureProcessGroup(command *exec.Cmd) {
	if command.SysProcAttr == nil {
		command.SysProcAttr = &syscall.SysProcAttr{}
	}
	command.SysProcAttr.Setpgid = true
}

// selectSignaler signals the whole process group when the child leads one so
// that grandchildren (interpreters, helper processes) are stopped too.
func selectSignaler(process *os.Process) processSignaler {
	processGroupIdentifier, groupError := unix.Getpgid(process.Pid)
	if groupError == nil && processGroupIdentifier == process.Pid {
		return processGroupSignaler{processGroupIdentifier: processGroupIdentifier}
	}
	return singleProcessSignaler{process: process}
}

type processGroupSignaler struct {
	processGroupIdentifier int
}

func (signaler processGroupSignaler) Terminate() error {
	return unix.Kill(-signaler.processGroupIdentifier, unix.SIGTERM)
}

func (signaler processGroupSignaler) Kill() error {
	return unix.Kill(-signaler.processGroupIdentifier, unix.SIGKILL)
}

func (signaler processGroupSignaler) Strategy() string {
	return processGroupStrategyNameConstant
}

func terminationSignal() os.Signal {
	return unix.SIGTERM
}
