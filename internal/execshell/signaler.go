package execshell

import "os"

const singleProcessStrategyNameConstant = "single_process"

// processSignaler delivers the two escalation signals to a running child.
type processSignaler interface {
	Terminate() error
	Kill() error
	Strategy() string
}

type singleProcessSignaler struct {
	process *os.Process
}

func (signaler singleProcessSignaler) Terminate() error {
	return signaler.process.Signal(terminationSignal())
}

func (signaler singleProcessSignaler) Kill() error {
	return signaler.process.Kill()
}

func (signaler singleProcessSignaler) Strategy() string {
	return singleProcessStrategyNameConstant
}
