package orchestrator

import (
	"time"

	"github.com/temirov/redboar/internal/adapters"
	"github.com/temirov/redboar/internal/execshell"
)

// State is the controller lifecycle phase.
type State string

// Controller states. StateError is transient and only observable while a
// rejected start unwinds.
const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateError    State = "error"
)

// RunID identifies one run.
type RunID string

// StartRequest describes a run the presentation layer wants to launch.
type StartRequest struct {
	ToolName       string
	Parameters     adapters.ParameterSet
	ExtraArguments string
}

// RunHandle describes the active run.
type RunHandle struct {
	ID          RunID
	ToolName    string
	DisplayName string
	Vector      execshell.ArgumentVector
	StartedAt   time.Time

	execution *execshell.Execution
}

// RunStatus is the final record of a run, available after its terminal event
// has been drained.
type RunStatus struct {
	RunID       RunID
	ToolName    string
	DisplayName string
	Vector      execshell.ArgumentVector
	Outcome     execshell.TerminalKind
	ExitCode    int
	Err         error
	StartedAt   time.Time
	FinishedAt  time.Time
	LineCount   int
}

// Duration reports how long the run lasted.
func (status RunStatus) Duration() time.Duration {
	return status.FinishedAt.Sub(status.StartedAt)
}

// Succeeded reports whether the tool exited on its own with status zero.
func (status RunStatus) Succeeded() bool {
	return status.Outcome == execshell.TerminalKindCompleted && status.ExitCode == 0
}
