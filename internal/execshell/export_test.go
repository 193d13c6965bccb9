package execshell

import (
	"io"
	"os"
)

// SetOutputReaderDecorator wraps the child's output reader, letting tests inject read failures.
func (runner *ProcessRunner) SetOutputReaderDecorator(decorator func(io.Reader) io.Reader) {
	runner.outputReaderDecorator = decorator
}

// IgnoreKillSignal makes the runner's kill signal a no-op so the child appears to survive it.
func (runner *ProcessRunner) IgnoreKillSignal() {
	runner.signalerSelector = func(process *os.Process) processSignaler {
		return ignoredKillSignaler{processSignaler: selectSignaler(process)}
	}
}

type ignoredKillSignaler struct {
	processSignaler
}

func (signaler ignoredKillSignaler) Kill() error {
	return nil
}
