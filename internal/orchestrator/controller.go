package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/redboar/internal/adapters"
	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/resolver"
)

const (
	stateChangedMessageConstant    = "controller state changed"
	runRejectedMessageConstant     = "run rejected"
	runStartedMessageConstant      = "run started"
	runFinishedMessageConstant     = "run finished"
	cancelIgnoredMessageConstant   = "cancel ignored"
	cancelRequestedMessageConstant = "cancel requested"
	logFieldFromStateConstant      = "from"
	logFieldToStateConstant        = "to"
	logFieldRunIdentifierConstant  = "run_id"
	logFieldToolConstant           = "tool"
	logFieldArgumentsConstant      = "arguments"
	logFieldOutcomeConstant        = "outcome"
	logFieldExitCodeConstant       = "exit_code"
	logFieldLineCountConstant      = "lines"
)

// AdapterRegistry looks up adapters by tool name.
type AdapterRegistry interface {
	Lookup(toolName string) (adapters.Adapter, error)
}

// ToolResolver locates tool executables and describes tools.
type ToolResolver interface {
	Resolve(toolName string) (resolver.ResolvedExecutable, bool)
	Spec(toolName string) (resolver.ToolSpec, bool)
	InstallHint(toolName string) string
}

// ProcessStarter launches argument vectors as child processes.
type ProcessStarter interface {
	Start(executionContext context.Context, vector execshell.ArgumentVector) *execshell.Execution
}

// ControllerDependencies wires the collaborators of a Controller. Registry,
// Resolver and Runner are required.
type ControllerDependencies struct {
	Registry            AdapterRegistry
	Resolver            ToolResolver
	Runner              ProcessStarter
	Logger              *zap.Logger
	Observer            RunObserver
	IdentifierGenerator func() string
	Clock               func() time.Time
}

// Controller runs at most one scan at a time.
type Controller struct {
	registry            AdapterRegistry
	resolver            ToolResolver
	runner              ProcessStarter
	logger              *zap.Logger
	observer            RunObserver
	identifierGenerator func() string
	clock               func() time.Time

	mutex      sync.Mutex
	state      State
	activeRun  *activeRun
	lastStatus *RunStatus
}

type activeRun struct {
	handle    RunHandle
	lineCount int
}

type pendingNotification func(observer RunObserver)

// NewController validates the dependencies and returns an idle controller.
func NewController(dependencies ControllerDependencies) (*Controller, error) {
	if dependencies.Registry == nil {
		return nil, ErrMissingRegistry
	}
	if dependencies.Resolver == nil {
		return nil, ErrMissingResolver
	}
	if dependencies.Runner == nil {
		return nil, ErrMissingRunner
	}

	controller := &Controller{
		registry:            dependencies.Registry,
		resolver:            dependencies.Resolver,
		runner:              dependencies.Runner,
		logger:              dependencies.Logger,
		observer:            dependencies.Observer,
		identifierGenerator: dependencies.IdentifierGenerator,
		clock:               dependencies.Clock,
		state:               StateIdle,
	}
	if controller.logger == nil {
		controller.logger = zap.NewNop()
	}
	if controller.observer == nil {
		controller.observer = NoopRunObserver{}
	}
	if controller.identifierGenerator == nil {
		controller.identifierGenerator = uuid.NewString
	}
	if controller.clock == nil {
		controller.clock = time.Now
	}
	return controller, nil
}

// BuildCommand assembles the full argument vector for a tool without running it.
func (controller *Controller) BuildCommand(toolName string, parameters adapters.ParameterSet, extraArguments string) (execshell.ArgumentVector, error) {
	adapter, lookupError := controller.registry.Lookup(toolName)
	if lookupError != nil {
		return execshell.ArgumentVector{}, lookupError
	}

	adapterArguments, buildError := adapter.BuildArguments(parameters)
	if buildError != nil {
		return execshell.ArgumentVector{}, buildError
	}

	extraTokens, splitError := adapters.SplitExtraArguments(extraArguments)
	if splitError != nil {
		return execshell.ArgumentVector{}, splitError
	}

	specification, _ := controller.resolver.Spec(adapter.ToolName())
	executable, found := controller.resolver.Resolve(adapter.ToolName())
	if !found {
		return execshell.ArgumentVector{}, &ResolutionError{
			ToolName:    adapter.ToolName(),
			DisplayName: specification.DisplayName,
			InstallHint: controller.resolver.InstallHint(adapter.ToolName()),
		}
	}

	return execshell.NewArgumentVector(executable.Segments(), adapterArguments, extraTokens).WithLabel(specification.DisplayName), nil
}

// Start launches a run. It returns ErrRunActive while another run is active,
// a validation or resolution error when the command cannot be built, and
// otherwise the identifier of the spawned run. A spawn failure is reported
// through the event stream, not as an error.
func (controller *Controller) Start(executionContext context.Context, request StartRequest) (RunID, error) {
	controller.mutex.Lock()
	if controller.state != StateIdle {
		controller.mutex.Unlock()
		controller.logger.Debug(runRejectedMessageConstant, zap.String(logFieldToolConstant, request.ToolName), zap.Error(ErrRunActive))
		controller.observer.RunRejected(request, ErrRunActive)
		return "", ErrRunActive
	}
	controller.transition(StateStarting)
	controller.mutex.Unlock()

	vector, buildError := controller.BuildCommand(request.ToolName, request.Parameters, request.ExtraArguments)

	controller.mutex.Lock()
	if buildError != nil {
		controller.transition(StateError)
		controller.transition(StateIdle)
		controller.mutex.Unlock()
		controller.logger.Debug(runRejectedMessageConstant, zap.String(logFieldToolConstant, request.ToolName), zap.Error(buildError))
		controller.observer.RunRejected(request, buildError)
		return "", buildError
	}

	specification, _ := controller.resolver.Spec(request.ToolName)
	handle := RunHandle{
		ID:          RunID(controller.identifierGenerator()),
		ToolName:    specification.Name,
		DisplayName: specification.DisplayName,
		Vector:      vector,
		StartedAt:   controller.clock(),
	}
	handle.execution = controller.runner.Start(executionContext, vector)
	controller.activeRun = &activeRun{handle: handle}
	controller.transition(StateRunning)
	controller.mutex.Unlock()

	controller.logger.Info(
		runStartedMessageConstant,
		zap.String(logFieldRunIdentifierConstant, string(handle.ID)),
		zap.String(logFieldToolConstant, handle.ToolName),
		zap.Strings(logFieldArgumentsConstant, vector.Arguments()),
	)
	controller.observer.RunStarted(handle)
	return handle.ID, nil
}

// Cancel asks the active run to stop. Unknown or finished runs are ignored.
// It reports whether a cancellation was forwarded.
func (controller *Controller) Cancel(runID RunID) bool {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	if controller.activeRun == nil || controller.activeRun.handle.ID != runID || controller.state != StateRunning {
		controller.logger.Debug(cancelIgnoredMessageConstant, zap.String(logFieldRunIdentifierConstant, string(runID)), zap.String("state", string(controller.state)))
		return false
	}

	controller.transition(StateStopping)
	controller.activeRun.handle.execution.Cancel()
	controller.logger.Debug(cancelRequestedMessageConstant, zap.String(logFieldRunIdentifierConstant, string(runID)))
	return true
}

// Drain collects the output events available right now without blocking.
// A non-positive maxEvents drains everything available. When the terminal
// event is among them the run is finalized and the controller returns to idle.
func (controller *Controller) Drain(maxEvents int) []execshell.OutputEvent {
	controller.mutex.Lock()
	if controller.activeRun == nil {
		controller.mutex.Unlock()
		return nil
	}

	run := controller.activeRun
	events := make([]execshell.OutputEvent, 0)
	notifications := make([]pendingNotification, 0)
	finished := false

collect:
	for maxEvents <= 0 || len(events) < maxEvents {
		select {
		case event, open := <-run.handle.execution.Events():
			if !open {
				notifications = append(notifications, controller.finalize(run, execshell.OutputEvent{Terminal: execshell.TerminalKindCancelled, Err: ErrRunAbandoned}))
				finished = true
				break collect
			}
			events = append(events, event)
			handle := run.handle
			notifications = append(notifications, func(observer RunObserver) { observer.RunOutput(handle, event) })
			if !event.IsTerminal() {
				run.lineCount++
				continue
			}
			notifications = append(notifications, controller.finalize(run, event))
			finished = true
			break collect
		default:
			break collect
		}
	}
	controller.mutex.Unlock()

	for _, notify := range notifications {
		notify(controller.observer)
	}
	if finished {
		if status, exists := controller.LastStatus(); exists {
			controller.logger.Info(
				runFinishedMessageConstant,
				zap.String(logFieldRunIdentifierConstant, string(status.RunID)),
				zap.String(logFieldToolConstant, status.ToolName),
				zap.String(logFieldOutcomeConstant, string(status.Outcome)),
				zap.Int(logFieldExitCodeConstant, status.ExitCode),
				zap.Int(logFieldLineCountConstant, status.LineCount),
			)
		}
	}
	return events
}

// State returns the current lifecycle phase.
func (controller *Controller) State() State {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return controller.state
}

// ActiveRun returns the handle of the run in progress, if any.
func (controller *Controller) ActiveRun() (RunHandle, bool) {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.activeRun == nil {
		return RunHandle{}, false
	}
	return controller.activeRun.handle, true
}

// LastStatus returns the status of the most recently finished run.
func (controller *Controller) LastStatus() (RunStatus, bool) {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.lastStatus == nil {
		return RunStatus{}, false
	}
	return *controller.lastStatus, true
}

// finalize records the status and clears the run; the caller holds the mutex.
func (controller *Controller) finalize(run *activeRun, terminalEvent execshell.OutputEvent) pendingNotification {
	// A cancelled outcome nobody asked for means the start context was cancelled.
	if terminalEvent.Terminal == execshell.TerminalKindCancelled && terminalEvent.Err == nil && controller.state != StateStopping {
		terminalEvent.Err = ErrRunAbandoned
	}
	status := RunStatus{
		RunID:       run.handle.ID,
		ToolName:    run.handle.ToolName,
		DisplayName: run.handle.DisplayName,
		Vector:      run.handle.Vector,
		Outcome:     terminalEvent.Terminal,
		ExitCode:    terminalEvent.ExitCode,
		Err:         terminalEvent.Err,
		StartedAt:   run.handle.StartedAt,
		FinishedAt:  controller.clock(),
		LineCount:   run.lineCount,
	}
	controller.lastStatus = &status
	controller.activeRun = nil
	controller.transition(StateIdle)
	return func(observer RunObserver) { observer.RunFinished(status) }
}

// transition changes the state; the caller holds the mutex.
func (controller *Controller) transition(next State) {
	controller.logger.Debug(stateChangedMessageConstant, zap.String(logFieldFromStateConstant, string(controller.state)), zap.String(logFieldToStateConstant, string(next)))
	controller.state = next
}
