package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/orchestrator"
	"github.com/temirov/redboar/internal/ui"
)

const (
	testOpenPortLineConstant = "22/tcp open ssh"
	testNmapToolConstant     = "nmap"
)

func TestOutputRendererWritesPlainTextWithoutColor(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	renderer := ui.NewOutputRenderer(&outputBuffer, ui.ColorModeNever)
	require.Equal(testInstance, termenv.Ascii, renderer.Profile())

	run := testRunHandle()
	renderer.RunStarted(run)
	renderer.RunOutput(run, execshell.NewLineEvent("Apache 2.4.49 - Path Traversal | multiple/webapps/50383.sh"))
	renderer.RunOutput(run, execshell.NewDiagnosticEvent("--- SearchSploit scan stopped by user ---"))
	renderer.RunOutput(run, execshell.NewCompletedEvent(0))
	renderer.RunFinished(testRunStatus(execshell.TerminalKindCompleted, 0, nil))
	renderer.RunRejected(orchestrator.StartRequest{ToolName: testToolNameConstant}, errors.New(testFailureReasonConstant))

	require.Equal(testInstance, []string{
		"Starting SearchSploit: /usr/bin/searchsploit apache '2.4 49'",
		"Apache 2.4.49 - Path Traversal | multiple/webapps/50383.sh",
		"--- SearchSploit scan stopped by user ---",
		"--- SearchSploit process finished with exit code 0 ---",
		"ERROR: " + testFailureReasonConstant,
	}, strings.Split(strings.TrimSuffix(outputBuffer.String(), "\n"), "\n"))
}

func TestOutputRendererReportsTerminalFailures(testInstance *testing.T) {
	testCases := []struct {
		name         string
		event        execshell.OutputEvent
		expectedLine string
	}{
		{
			name:         "spawn_failed",
			event:        execshell.NewSpawnFailedEvent(errors.New(testFailureReasonConstant)),
			expectedLine: "ERROR: '/usr/bin/searchsploit' could not be started for SearchSploit: " + testFailureReasonConstant + "\n",
		},
		{
			name:         "stream_error",
			event:        execshell.NewStreamErrorEvent(errors.New(testFailureReasonConstant)),
			expectedLine: "ERROR: reading SearchSploit output failed: " + testFailureReasonConstant + "\n",
		},
		{
			name:         "cancelled",
			event:        execshell.NewCancelledEvent(),
			expectedLine: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var outputBuffer bytes.Buffer
			renderer := ui.NewOutputRenderer(&outputBuffer, ui.ColorModeNever)
			renderer.RunOutput(testRunHandle(), testCase.event)
			require.Equal(testInstance, testCase.expectedLine, outputBuffer.String())
		})
	}
}

func TestOutputRendererStylesLinesWhenColorForced(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	renderer := ui.NewOutputRenderer(&outputBuffer, ui.ColorModeAlways)
	require.NotEqual(testInstance, termenv.Ascii, renderer.Profile())

	styledLine := renderer.RenderLine(testNmapToolConstant, testOpenPortLineConstant)
	require.Contains(testInstance, styledLine, testOpenPortLineConstant)
	require.Contains(testInstance, styledLine, "\x1b[")
}

func TestDetectColorProfileForNonTerminalWriter(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	require.Equal(testInstance, termenv.Ascii, ui.DetectColorProfile(&outputBuffer, ui.ColorModeAuto))
	require.Equal(testInstance, termenv.Ascii, ui.DetectColorProfile(&outputBuffer, ui.ColorModeNever))
}

func TestParseColorMode(testInstance *testing.T) {
	testCases := []struct {
		name          string
		rawValue      string
		expectedMode  ui.ColorMode
		expectedError bool
	}{
		{name: "empty", rawValue: "", expectedMode: ui.ColorModeAuto},
		{name: "always", rawValue: " ALWAYS ", expectedMode: ui.ColorModeAlways},
		{name: "never", rawValue: "never", expectedMode: ui.ColorModeNever},
		{name: "invalid", rawValue: "sometimes", expectedError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			mode, parseError := ui.ParseColorMode(testCase.rawValue)
			if testCase.expectedError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedMode, mode)
		})
	}
}
