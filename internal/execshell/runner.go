package execshell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultGracePeriod bounds the wait between the termination and kill signals.
	DefaultGracePeriod = time.Second
	// DefaultKillWait bounds the wait after the kill signal.
	DefaultKillWait = time.Second
	// DefaultEventBufferSize is the capacity of an execution's event channel.
	DefaultEventBufferSize = 256
)

const (
	processSpawnedMessageConstant      = "process spawned"
	processSpawnFailedMessageConstant  = "process spawn failed"
	processExitedMessageConstant       = "process exited"
	processTerminatingMessageConstant  = "sending termination signal"
	processKillingMessageConstant      = "sending kill signal"
	processUnkillableMessageConstant   = "process survived kill signal"
	processSignalFailedMessageConstant = "signal delivery failed"
	processStreamFailedMessageConstant = "output stream failed"
	processAbandonedMessageConstant    = "execution abandoned by consumer"
	logFieldExecutableConstant         = "executable"
	logFieldArgumentsConstant          = "arguments"
	logFieldProcessIdentifierConstant  = "pid"
	logFieldExitCodeConstant           = "exit_code"
	logFieldStrategyConstant           = "strategy"
	spawnErrorTemplateConstant         = "start %s: %w"
	pipeErrorTemplateConstant          = "create output pipe: %w"
	streamErrorTemplateConstant        = "read output: %w"
	lineTerminatorConstant             = '\n'
	carriageReturnConstant             = "\r"
	unknownExitCodeConstant            = -1
)

// ErrEmptyArgumentVector indicates that Start received a vector without an executable.
var ErrEmptyArgumentVector = errors.New("argument vector is empty")

// RunnerOptions tunes escalation timing and buffering. Zero values select the defaults.
type RunnerOptions struct {
	GracePeriod     time.Duration
	KillWait        time.Duration
	EventBufferSize int
}

func (options RunnerOptions) withDefaults() RunnerOptions {
	if options.GracePeriod <= 0 {
		options.GracePeriod = DefaultGracePeriod
	}
	if options.KillWait <= 0 {
		options.KillWait = DefaultKillWait
	}
	if options.EventBufferSize <= 0 {
		options.EventBufferSize = DefaultEventBufferSize
	}
	return options
}

// ProcessRunner executes argument vectors as child processes and streams their merged output.
type ProcessRunner struct {
	logger                *zap.Logger
	options               RunnerOptions
	messageFormatter      DiagnosticMessageFormatter
	outputReaderDecorator func(io.Reader) io.Reader
	signalerSelector      func(*os.Process) processSignaler
}

// NewProcessRunner constructs a ProcessRunner. A nil logger discards diagnostics.
func NewProcessRunner(logger *zap.Logger, options RunnerOptions) *ProcessRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessRunner{logger: logger, options: options.withDefaults(), signalerSelector: selectSignaler}
}

// Options returns the effective runner options.
func (runner *ProcessRunner) Options() RunnerOptions {
	return runner.options
}

// Execution is the handle of one started child process. Its event channel
// carries output lines in order followed by exactly one terminal event, after
// which the channel is closed.
type Execution struct {
	vector            ArgumentVector
	processIdentifier int
	events            chan OutputEvent
	cancelSignal      chan struct{}
	cancelOnce        sync.Once
	done              chan struct{}
}

func newExecution(vector ArgumentVector, bufferSize int) *Execution {
	return &Execution{
		vector:       vector,
		events:       make(chan OutputEvent, bufferSize),
		cancelSignal: make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Events returns the ordered event stream.
func (execution *Execution) Events() <-chan OutputEvent {
	return execution.events
}

// Cancel requests escalating termination. Calls after the first have no effect.
func (execution *Execution) Cancel() {
	execution.cancelOnce.Do(func() {
		close(execution.cancelSignal)
	})
}

// Done is closed once the worker has finished and the event channel is closed.
func (execution *Execution) Done() <-chan struct{} {
	return execution.done
}

// PID returns the child's process identifier, or zero when spawning failed.
func (execution *Execution) PID() int {
	return execution.processIdentifier
}

// Vector returns the argument vector the execution was started with.
func (execution *Execution) Vector() ArgumentVector {
	return execution.vector
}

func (execution *Execution) finishImmediately(event OutputEvent) {
	execution.events <- event
	close(execution.events)
	close(execution.done)
}

// Start spawns the vector synchronously and hands the child to a worker
// goroutine. Spawn failures are reported through the returned execution as a
// single spawn_failed event. Cancelling executionContext abandons the
// execution: the child is terminated, buffered lines may be discarded and the
// stream ends with a cancelled event.
func (runner *ProcessRunner) Start(executionContext context.Context, vector ArgumentVector) *Execution {
	execution := newExecution(vector, runner.options.EventBufferSize)

	if vector.IsEmpty() {
		execution.finishImmediately(NewSpawnFailedEvent(ErrEmptyArgumentVector))
		return execution
	}

	arguments := vector.Arguments()
	command := exec.Command(arguments[0], arguments[1:]...)
	configureProcessGroup(command)

	outputReader, outputWriter, pipeError := os.Pipe()
	if pipeError != nil {
		execution.finishImmediately(NewSpawnFailedEvent(fmt.Errorf(pipeErrorTemplateConstant, pipeError)))
		return execution
	}
	command.Stdout = outputWriter
	command.Stderr = outputWriter

	if startError := command.Start(); startError != nil {
		_ = outputWriter.Close()
		_ = outputReader.Close()
		spawnError := fmt.Errorf(spawnErrorTemplateConstant, arguments[0], startError)
		runner.logger.Debug(processSpawnFailedMessageConstant, zap.String(logFieldExecutableConstant, arguments[0]), zap.Error(spawnError))
		execution.finishImmediately(NewSpawnFailedEvent(spawnError))
		return execution
	}
	_ = outputWriter.Close()

	execution.processIdentifier = command.Process.Pid
	runner.logger.Debug(
		processSpawnedMessageConstant,
		zap.String(logFieldExecutableConstant, arguments[0]),
		zap.Strings(logFieldArgumentsConstant, arguments[1:]),
		zap.Int(logFieldProcessIdentifierConstant, execution.processIdentifier),
	)

	var outputSource io.Reader = outputReader
	if runner.outputReaderDecorator != nil {
		outputSource = runner.outputReaderDecorator(outputReader)
	}

	worker := &executionWorker{
		runner:       runner,
		execution:    execution,
		context:      executionContext,
		command:      command,
		signaler:     runner.signalerSelector(command.Process),
		outputCloser: outputReader,
		waitResult:   make(chan error, 1),
		lines:        make(chan string),
		readOutcome:  make(chan error, 1),
		stopReading:  make(chan struct{}),
	}
	go worker.waitForExit()
	go worker.readLines(outputSource)
	go worker.supervise()

	return execution
}

type deliveryOutcome int

const (
	deliveryOutcomeDelivered deliveryOutcome = iota
	deliveryOutcomeCancelRequested
	deliveryOutcomeAbandoned
)

// executionWorker owns the child process for the lifetime of one execution.
type executionWorker struct {
	runner       *ProcessRunner
	execution    *Execution
	context      context.Context
	command      *exec.Cmd
	signaler     processSignaler
	outputCloser io.Closer

	waitResult  chan error
	lines       chan string
	readOutcome chan error
	stopReading chan struct{}

	reaped    bool
	exitError error
	abandoned bool
}

func (worker *executionWorker) waitForExit() {
	worker.waitResult <- worker.command.Wait()
}

func (worker *executionWorker) readLines(source io.Reader) {
	defer close(worker.lines)

	bufferedReader := bufio.NewReader(source)
	for {
		text, readError := bufferedReader.ReadString(lineTerminatorConstant)
		if len(text) > 0 {
			select {
			case worker.lines <- trimLineTerminator(text):
			case <-worker.stopReading:
				worker.readOutcome <- nil
				return
			}
		}
		if readError != nil {
			if errors.Is(readError, io.EOF) {
				worker.readOutcome <- nil
			} else {
				worker.readOutcome <- readError
			}
			return
		}
	}
}

func (worker *executionWorker) supervise() {
	defer close(worker.execution.done)
	defer close(worker.execution.events)
	defer worker.releaseOutput()

	for {
		select {
		case <-worker.execution.cancelSignal:
			worker.finishCancelled()
			return
		default:
		}

		select {
		case line, open := <-worker.lines:
			if !open {
				if readError := <-worker.readOutcome; readError != nil {
					worker.finishStreamError(readError)
					return
				}
				worker.finishAfterEndOfOutput()
				return
			}
			switch worker.deliver(NewLineEvent(line), true) {
			case deliveryOutcomeCancelRequested:
				worker.finishCancelled()
				return
			case deliveryOutcomeAbandoned:
				worker.finishAbandoned()
				return
			}
		case <-worker.execution.cancelSignal:
			worker.finishCancelled()
			return
		case <-worker.context.Done():
			worker.finishAbandoned()
			return
		}
	}
}

func (worker *executionWorker) finishAfterEndOfOutput() {
	select {
	case waitError := <-worker.waitResult:
		worker.recordExit(waitError)
		worker.emitTerminal(NewCompletedEvent(worker.exitCode()))
		return
	default:
	}

	select {
	case waitError := <-worker.waitResult:
		worker.recordExit(waitError)
		worker.emitTerminal(NewCompletedEvent(worker.exitCode()))
	case <-worker.execution.cancelSignal:
		worker.finishCancelled()
	case <-worker.context.Done():
		worker.finishAbandoned()
	}
}

func (worker *executionWorker) finishCancelled() {
	worker.deliver(NewDiagnosticEvent(worker.runner.messageFormatter.StopRequested(worker.execution.vector.Label())), false)
	worker.escalate()
	worker.emitTerminal(NewCancelledEvent())
}

func (worker *executionWorker) finishStreamError(readError error) {
	streamError := fmt.Errorf(streamErrorTemplateConstant, readError)
	worker.runner.logger.Debug(processStreamFailedMessageConstant, zap.Int(logFieldProcessIdentifierConstant, worker.execution.processIdentifier), zap.Error(streamError))
	worker.escalate()
	worker.emitTerminal(NewStreamErrorEvent(streamError))
}

func (worker *executionWorker) finishAbandoned() {
	worker.abandoned = true
	worker.runner.logger.Debug(processAbandonedMessageConstant, zap.Int(logFieldProcessIdentifierConstant, worker.execution.processIdentifier))
	worker.escalate()
	worker.emitTerminal(NewCancelledEvent())
}

// escalate sends the termination signal, waits up to the grace period, then
// sends the kill signal and waits up to the kill wait. Signals are only sent
// while the child has not been reaped.
func (worker *executionWorker) escalate() {
	defer worker.stopOutput()

	if worker.pollExit() {
		return
	}

	worker.runner.logger.Debug(processTerminatingMessageConstant, worker.signalFields()...)
	if signalError := worker.signaler.Terminate(); signalError != nil {
		worker.runner.logger.Debug(processSignalFailedMessageConstant, append(worker.signalFields(), zap.Error(signalError))...)
	}
	if worker.awaitExit(worker.runner.options.GracePeriod) {
		return
	}

	worker.deliver(NewDiagnosticEvent(worker.runner.messageFormatter.Escalated(worker.execution.vector.Label())), false)
	worker.runner.logger.Debug(processKillingMessageConstant, worker.signalFields()...)
	if signalError := worker.signaler.Kill(); signalError != nil {
		worker.runner.logger.Debug(processSignalFailedMessageConstant, append(worker.signalFields(), zap.Error(signalError))...)
	}
	if worker.awaitExit(worker.runner.options.KillWait) {
		return
	}

	worker.runner.logger.Debug(processUnkillableMessageConstant, worker.signalFields()...)
	worker.deliver(NewDiagnosticEvent(worker.runner.messageFormatter.Unkillable(worker.execution.vector.Label())), false)
}

func (worker *executionWorker) pollExit() bool {
	if worker.reaped {
		return true
	}
	select {
	case waitError := <-worker.waitResult:
		worker.recordExit(waitError)
		return true
	default:
		return false
	}
}

func (worker *executionWorker) awaitExit(limit time.Duration) bool {
	if worker.pollExit() {
		return true
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()
	select {
	case waitError := <-worker.waitResult:
		worker.recordExit(waitError)
		return true
	case <-timer.C:
		return false
	}
}

func (worker *executionWorker) recordExit(waitError error) {
	worker.reaped = true
	worker.exitError = waitError
	worker.runner.logger.Debug(
		processExitedMessageConstant,
		zap.Int(logFieldProcessIdentifierConstant, worker.execution.processIdentifier),
		zap.Int(logFieldExitCodeConstant, worker.exitCode()),
	)
}

func (worker *executionWorker) exitCode() int {
	if worker.command.ProcessState != nil {
		return worker.command.ProcessState.ExitCode()
	}
	var exitError *exec.ExitError
	if errors.As(worker.exitError, &exitError) {
		return exitError.ExitCode()
	}
	return unknownExitCodeConstant
}

// stopOutput unblocks the reader even when grandchildren still hold the pipe open.
func (worker *executionWorker) stopOutput() {
	select {
	case <-worker.stopReading:
	default:
		close(worker.stopReading)
	}
	worker.releaseOutput()
}

func (worker *executionWorker) releaseOutput() {
	if worker.outputCloser == nil {
		return
	}
	_ = worker.outputCloser.Close()
	worker.outputCloser = nil
}

// deliver sends a non-terminal event. When interruptible is set a pending
// cancellation request wins over a full channel.
func (worker *executionWorker) deliver(event OutputEvent, interruptible bool) deliveryOutcome {
	if worker.abandoned {
		return deliveryOutcomeAbandoned
	}
	cancelSignal := worker.execution.cancelSignal
	if !interruptible {
		cancelSignal = nil
	}
	select {
	case worker.execution.events <- event:
		return deliveryOutcomeDelivered
	case <-cancelSignal:
		return deliveryOutcomeCancelRequested
	case <-worker.context.Done():
		worker.abandoned = true
		return deliveryOutcomeAbandoned
	}
}

func (worker *executionWorker) emitTerminal(event OutputEvent) {
	if !worker.abandoned {
		select {
		case worker.execution.events <- event:
			return
		case <-worker.context.Done():
			worker.abandoned = true
		}
	}
	worker.placeTerminal(event)
}

// placeTerminal stores the terminal event without waiting for a reader,
// evicting the oldest buffered events when the channel is full.
func (worker *executionWorker) placeTerminal(event OutputEvent) {
	for {
		select {
		case worker.execution.events <- event:
			return
		default:
		}
		select {
		case <-worker.execution.events:
		default:
		}
	}
}

func (worker *executionWorker) signalFields() []zap.Field {
	return []zap.Field{
		zap.Int(logFieldProcessIdentifierConstant, worker.execution.processIdentifier),
		zap.String(logFieldStrategyConstant, worker.signaler.Strategy()),
	}
}

func trimLineTerminator(text string) string {
	trimmed := strings.TrimSuffix(text, string(lineTerminatorConstant))
	return strings.TrimSuffix(trimmed, carriageReturnConstant)
}
