package ui_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/orchestrator"
	"github.com/temirov/redboar/internal/ui"
)

const (
	testToolNameConstant            = "searchsploit"
	testDisplayNameConstant         = "SearchSploit"
	testRunIdentifierConstant       = "run-7"
	testFailureReasonConstant       = "exec format error"
	testStartedMessageExpectation   = "Running SearchSploit: /usr/bin/searchsploit apache '2.4 49'"
	testCompletedMessageExpectation = "Completed SearchSploit in 1.5s (12 lines)"
	testFailedMessageExpectation    = "SearchSploit failed with exit code 2"
	testCancelledMessageExpectation = "SearchSploit stopped by user after 1.5s"
	testSpawnMessageExpectation     = "SearchSploit could not be started: " + testFailureReasonConstant
	testStreamMessageExpectation    = "SearchSploit output could not be read: " + testFailureReasonConstant
	testRejectedMessageExpectation  = "searchsploit was not started: " + testFailureReasonConstant
)

func testRunHandle() orchestrator.RunHandle {
	return orchestrator.RunHandle{
		ID:          testRunIdentifierConstant,
		ToolName:    testToolNameConstant,
		DisplayName: testDisplayNameConstant,
		Vector:      execshell.NewArgumentVector([]string{"/usr/bin/searchsploit", "apache", "2.4 49"}),
	}
}

func testRunStatus(outcome execshell.TerminalKind, exitCode int, failure error) orchestrator.RunStatus {
	startedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return orchestrator.RunStatus{
		RunID:       testRunIdentifierConstant,
		ToolName:    testToolNameConstant,
		DisplayName: testDisplayNameConstant,
		Outcome:     outcome,
		ExitCode:    exitCode,
		Err:         failure,
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(1500 * time.Millisecond),
		LineCount:   12,
	}
}

func TestConsoleRunEventLoggerEmitsMessages(testInstance *testing.T) {
	injectedFailure := errors.New(testFailureReasonConstant)

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleRunEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name:            "run_started",
			invoke:          func(logger *ui.ConsoleRunEventLogger) { logger.RunStarted(testRunHandle()) },
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testStartedMessageExpectation,
		},
		{
			name: "run_completed",
			invoke: func(logger *ui.ConsoleRunEventLogger) {
				logger.RunFinished(testRunStatus(execshell.TerminalKindCompleted, 0, nil))
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testCompletedMessageExpectation,
		},
		{
			name: "run_failed_exit_code",
			invoke: func(logger *ui.ConsoleRunEventLogger) {
				logger.RunFinished(testRunStatus(execshell.TerminalKindCompleted, 2, nil))
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailedMessageExpectation,
		},
		{
			name: "run_cancelled",
			invoke: func(logger *ui.ConsoleRunEventLogger) {
				logger.RunFinished(testRunStatus(execshell.TerminalKindCancelled, 0, nil))
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testCancelledMessageExpectation,
		},
		{
			name: "run_spawn_failed",
			invoke: func(logger *ui.ConsoleRunEventLogger) {
				logger.RunFinished(testRunStatus(execshell.TerminalKindSpawnFailed, 0, injectedFailure))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testSpawnMessageExpectation,
		},
		{
			name: "run_stream_failed",
			invoke: func(logger *ui.ConsoleRunEventLogger) {
				logger.RunFinished(testRunStatus(execshell.TerminalKindStreamError, 0, injectedFailure))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testStreamMessageExpectation,
		},
		{
			name: "run_rejected",
			invoke: func(logger *ui.ConsoleRunEventLogger) {
				logger.RunRejected(orchestrator.StartRequest{ToolName: testToolNameConstant}, injectedFailure)
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testRejectedMessageExpectation,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observedCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleRunEventLogger(zap.New(observedCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleRunEventLoggerIgnoresOutputLines(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	eventLogger := ui.NewConsoleRunEventLogger(zap.New(observedCore))

	eventLogger.RunOutput(testRunHandle(), execshell.NewLineEvent("Exploit Title | Path"))

	require.Zero(testInstance, observedLogs.Len())
}

func TestConsoleRunEventLoggerToleratesNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleRunEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.RunStarted(testRunHandle())
		eventLogger.RunFinished(testRunStatus(execshell.TerminalKindCompleted, 0, nil))
		eventLogger.RunRejected(orchestrator.StartRequest{}, nil)
	})
}
