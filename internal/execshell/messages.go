package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStopRequested messageStage = iota
	messageStageEscalated
	messageStageUnkillable
	messageStageFinished
	messageStageSpawnFailed
	messageStageStreamFailed
)

const (
	stopRequestedTemplateConstant = "--- %s scan stopped by user ---"
	escalatedTemplateConstant     = "%s did not terminate quickly, sending kill signal"
	unkillableTemplateConstant    = "%s process did not die after kill signal"
	finishedTemplateConstant      = "--- %s process finished with exit code %d ---"
	spawnFailedTemplateConstant   = "ERROR: '%s' could not be started for %s: %s"
	streamFailedTemplateConstant  = "ERROR: reading %s output failed: %s"
	unknownToolLabelConstant      = "tool"
	unknownFailureMessageConstant = "unknown error"
)

// DiagnosticMessageFormatter builds the human-readable lines the runner and
// presentation layer emit around a child's own output.
type DiagnosticMessageFormatter struct{}

// StopRequested formats the notice emitted when a user cancels a run.
func (formatter DiagnosticMessageFormatter) StopRequested(label string) string {
	return formatter.buildMessage(messageStageStopRequested, label, 0, "", nil)
}

// Escalated formats the notice emitted before the kill signal.
func (formatter DiagnosticMessageFormatter) Escalated(label string) string {
	return formatter.buildMessage(messageStageEscalated, label, 0, "", nil)
}

// Unkillable formats the notice emitted when the process survives the kill signal.
func (formatter DiagnosticMessageFormatter) Unkillable(label string) string {
	return formatter.buildMessage(messageStageUnkillable, label, 0, "", nil)
}

// Finished formats the status line for a child that exited on its own.
func (formatter DiagnosticMessageFormatter) Finished(label string, exitCode int) string {
	return formatter.buildMessage(messageStageFinished, label, exitCode, "", nil)
}

// SpawnFailed formats the error line for a child that could not be started.
func (formatter DiagnosticMessageFormatter) SpawnFailed(label string, executable string, failure error) string {
	return formatter.buildMessage(messageStageSpawnFailed, label, 0, executable, failure)
}

// StreamFailed formats the error line for a broken output stream.
func (formatter DiagnosticMessageFormatter) StreamFailed(label string, failure error) string {
	return formatter.buildMessage(messageStageStreamFailed, label, 0, "", failure)
}

func (formatter DiagnosticMessageFormatter) buildMessage(stage messageStage, label string, exitCode int, executable string, failure error) string {
	toolLabel := strings.TrimSpace(label)
	if len(toolLabel) == 0 {
		toolLabel = unknownToolLabelConstant
	}

	switch stage {
	case messageStageStopRequested:
		return fmt.Sprintf(stopRequestedTemplateConstant, toolLabel)
	case messageStageEscalated:
		return fmt.Sprintf(escalatedTemplateConstant, toolLabel)
	case messageStageUnkillable:
		return fmt.Sprintf(unkillableTemplateConstant, toolLabel)
	case messageStageFinished:
		return fmt.Sprintf(finishedTemplateConstant, toolLabel, exitCode)
	case messageStageSpawnFailed:
		return fmt.Sprintf(spawnFailedTemplateConstant, executable, toolLabel, failureDescription(failure))
	case messageStageStreamFailed:
		return fmt.Sprintf(streamFailedTemplateConstant, toolLabel, failureDescription(failure))
	default:
		return toolLabel
	}
}

func failureDescription(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
