package ui

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/redboar/internal/adapters"
	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/orchestrator"
)

const (
	runStartedMessageTemplateConstant     = "Running %s: %s"
	runCompletedMessageTemplateConstant   = "Completed %s in %s (%d lines)"
	runFailedExitCodeMessageTemplate      = "%s failed with exit code %d"
	runCancelledMessageTemplateConstant   = "%s stopped by user after %s"
	runSpawnFailedMessageTemplateConstant = "%s could not be started: %s"
	runStreamFailedMessageTemplate        = "%s output could not be read: %s"
	runAbandonedMessageTemplateConstant   = "%s was abandoned: %s"
	runRejectedMessageTemplateConstant    = "%s was not started: %s"
	unknownFailureMessageConstant         = "unknown error"
	unknownToolLabelConstant              = "tool"
	durationRoundingConstant              = 10 * time.Millisecond
)

// RunEventFormatter builds human-readable messages for run lifecycle events.
type RunEventFormatter struct{}

// BuildStartedMessage formats the message describing a run about to stream output.
func (formatter RunEventFormatter) BuildStartedMessage(run orchestrator.RunHandle) string {
	return fmt.Sprintf(runStartedMessageTemplateConstant, formatter.label(run.DisplayName, run.ToolName), adapters.FormatCommandLine(run.Vector.Arguments()))
}

// BuildFinishedMessage formats the message describing how a run ended.
func (formatter RunEventFormatter) BuildFinishedMessage(status orchestrator.RunStatus) string {
	label := formatter.label(status.DisplayName, status.ToolName)
	switch status.Outcome {
	case execshell.TerminalKindCompleted:
		if status.ExitCode == 0 {
			return fmt.Sprintf(runCompletedMessageTemplateConstant, label, status.Duration().Round(durationRoundingConstant), status.LineCount)
		}
		return fmt.Sprintf(runFailedExitCodeMessageTemplate, label, status.ExitCode)
	case execshell.TerminalKindSpawnFailed:
		return fmt.Sprintf(runSpawnFailedMessageTemplateConstant, label, failureDescription(status.Err))
	case execshell.TerminalKindStreamError:
		return fmt.Sprintf(runStreamFailedMessageTemplate, label, failureDescription(status.Err))
	default:
		if status.Err != nil {
			return fmt.Sprintf(runAbandonedMessageTemplateConstant, label, status.Err.Error())
		}
		return fmt.Sprintf(runCancelledMessageTemplateConstant, label, status.Duration().Round(durationRoundingConstant))
	}
}

// BuildRejectedMessage formats the message describing a run that never started.
func (formatter RunEventFormatter) BuildRejectedMessage(request orchestrator.StartRequest, rejection error) string {
	return fmt.Sprintf(runRejectedMessageTemplateConstant, formatter.label("", request.ToolName), failureDescription(rejection))
}

func (formatter RunEventFormatter) label(displayName string, toolName string) string {
	if trimmedDisplayName := strings.TrimSpace(displayName); len(trimmedDisplayName) > 0 {
		return trimmedDisplayName
	}
	if trimmedToolName := strings.TrimSpace(toolName); len(trimmedToolName) > 0 {
		return trimmedToolName
	}
	return unknownToolLabelConstant
}

func failureDescription(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// ConsoleRunEventLogger reports run lifecycle events through a zap logger configured for human-readable output.
type ConsoleRunEventLogger struct {
	logger    *zap.Logger
	formatter RunEventFormatter
}

// NewConsoleRunEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleRunEventLogger(logger *zap.Logger) *ConsoleRunEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleRunEventLogger{logger: logger, formatter: RunEventFormatter{}}
}

// RunStarted implements orchestrator.RunObserver.
func (eventLogger *ConsoleRunEventLogger) RunStarted(run orchestrator.RunHandle) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(run))
}

// RunOutput implements orchestrator.RunObserver. Output lines belong to the renderer.
func (eventLogger *ConsoleRunEventLogger) RunOutput(orchestrator.RunHandle, execshell.OutputEvent) {}

// RunFinished implements orchestrator.RunObserver, logging failures above info level.
func (eventLogger *ConsoleRunEventLogger) RunFinished(status orchestrator.RunStatus) {
	if eventLogger == nil {
		return
	}
	message := eventLogger.formatter.BuildFinishedMessage(status)
	switch {
	case status.Succeeded():
		eventLogger.logger.Info(message)
	case status.Outcome == execshell.TerminalKindSpawnFailed || status.Outcome == execshell.TerminalKindStreamError:
		eventLogger.logger.Error(message)
	default:
		eventLogger.logger.Warn(message)
	}
}

// RunRejected implements orchestrator.RunObserver.
func (eventLogger *ConsoleRunEventLogger) RunRejected(request orchestrator.StartRequest, rejection error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildRejectedMessage(request, rejection))
}
