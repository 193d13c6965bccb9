package orchestrator

import (
	"errors"
	"fmt"
)

const (
	resolutionErrorTemplateConstant = "%s executable not found: %s"
)

var (
	// ErrRunActive indicates that a run is already in progress on the controller.
	ErrRunActive = errors.New("a scan is already running")
	// ErrMissingRegistry indicates that the controller was built without an adapter registry.
	ErrMissingRegistry = errors.New("adapter registry is required")
	// ErrMissingResolver indicates that the controller was built without an executable resolver.
	ErrMissingResolver = errors.New("executable resolver is required")
	// ErrMissingRunner indicates that the controller was built without a process runner.
	ErrMissingRunner = errors.New("process runner is required")
	// ErrRunAbandoned is recorded when an execution is cancelled through its start
	// context rather than Cancel, or ends without a terminal event.
	ErrRunAbandoned = errors.New("run abandoned before completion")
)

// ResolutionError reports a tool whose executable could not be located.
type ResolutionError struct {
	ToolName    string
	DisplayName string
	InstallHint string
}

// Error describes the missing tool together with the installation guidance.
func (resolutionError *ResolutionError) Error() string {
	label := resolutionError.DisplayName
	if len(label) == 0 {
		label = resolutionError.ToolName
	}
	return fmt.Sprintf(resolutionErrorTemplateConstant, label, resolutionError.InstallHint)
}
