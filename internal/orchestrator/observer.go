package orchestrator

import "github.com/temirov/redboar/internal/execshell"

// RunObserver receives run lifecycle notifications. Implementations must not
// call back into the controller from these methods.
type RunObserver interface {
	RunStarted(run RunHandle)
	RunOutput(run RunHandle, event execshell.OutputEvent)
	RunFinished(status RunStatus)
	RunRejected(request StartRequest, rejection error)
}

// NoopRunObserver discards every notification.
type NoopRunObserver struct{}

// RunStarted does nothing.
func (NoopRunObserver) RunStarted(RunHandle) {}

// RunOutput does nothing.
func (NoopRunObserver) RunOutput(RunHandle, execshell.OutputEvent) {}

// RunFinished does nothing.
func (NoopRunObserver) RunFinished(RunStatus) {}

// RunRejected does nothing.
func (NoopRunObserver) RunRejected(StartRequest, error) {}

// MultiObserver fans notifications out to every member in order.
type MultiObserver []RunObserver

// RunStarted forwards to every member.
func (observers MultiObserver) RunStarted(run RunHandle) {
	for _, observer := range observers {
		if observer != nil {
			observer.RunStarted(run)
		}
	}
}

// RunOutput forwards to every member.
func (observers MultiObserver) RunOutput(run RunHandle, event execshell.OutputEvent) {
	for _, observer := range observers {
		if observer != nil {
			observer.RunOutput(run, event)
		}
	}
}

// RunFinished forwards to every member.
func (observers MultiObserver) RunFinished(status RunStatus) {
	for _, observer := range observers {
		if observer != nil {
			observer.RunFinished(status)
		}
	}
}

// RunRejected forwards to every member.
func (observers MultiObserver) RunRejected(request StartRequest, rejection error) {
	for _, observer := range observers {
		if observer != nil {
			observer.RunRejected(request, rejection)
		}
	}
}
