package orchestrator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/orchestrator"
)

type countingObserver struct {
	notifications int
}

func (observer *countingObserver) RunStarted(orchestrator.RunHandle) { observer.notifications++ }

func (observer *countingObserver) RunOutput(orchestrator.RunHandle, execshell.OutputEvent) {
	observer.notifications++
}

func (observer *countingObserver) RunFinished(orchestrator.RunStatus) { observer.notifications++ }

func (observer *countingObserver) RunRejected(orchestrator.StartRequest, error) {
	observer.notifications++
}

func TestMultiObserverFansOutAndSkipsNilMembers(testInstance *testing.T) {
	firstObserver := &countingObserver{}
	secondObserver := &countingObserver{}
	fanOut := orchestrator.MultiObserver{firstObserver, nil, orchestrator.NoopRunObserver{}, secondObserver}

	fanOut.RunStarted(orchestrator.RunHandle{})
	fanOut.RunOutput(orchestrator.RunHandle{}, execshell.NewLineEvent("line"))
	fanOut.RunFinished(orchestrator.RunStatus{})
	fanOut.RunRejected(orchestrator.StartRequest{}, errors.New("rejected"))

	require.Equal(testInstance, 4, firstObserver.notifications)
	require.Equal(testInstance, 4, secondObserver.notifications)
}

func TestRunStatusSucceeded(testInstance *testing.T) {
	testCases := []struct {
		name     string
		status   orchestrator.RunStatus
		expected bool
	}{
		{name: "zero exit", status: orchestrator.RunStatus{Outcome: execshell.TerminalKindCompleted}, expected: true},
		{name: "non-zero exit", status: orchestrator.RunStatus{Outcome: execshell.TerminalKindCompleted, ExitCode: 1}, expected: false},
		{name: "cancelled", status: orchestrator.RunStatus{Outcome: execshell.TerminalKindCancelled}, expected: false},
	}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.status.Succeeded())
		})
	}
}
