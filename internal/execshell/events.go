package execshell

// TerminalKind identifies how a run ended.
type TerminalKind string

// Terminal kinds reported by the final event of an execution.
const (
	TerminalKindNone        TerminalKind = ""
	TerminalKindCompleted   TerminalKind = "completed"
	TerminalKindCancelled   TerminalKind = "cancelled"
	TerminalKindSpawnFailed TerminalKind = "spawn_failed"
	TerminalKindStreamError TerminalKind = "stream_error"
)

// OutputEvent is either one output line or the terminal marker of an execution.
type OutputEvent struct {
	// Line holds the output text without its trailing line terminator.
	Line string
	// Diagnostic marks lines generated by the runner rather than the child.
	Diagnostic bool
	// Terminal is set only on the final event.
	Terminal TerminalKind
	// ExitCode is meaningful for TerminalKindCompleted.
	ExitCode int
	// Err carries the failure detail for spawn and stream failures.
	Err error
}

// IsTerminal reports whether the event ends the stream.
func (event OutputEvent) IsTerminal() bool {
	return event.Terminal != TerminalKindNone
}

// NewLineEvent wraps a line produced by the child process.
func NewLineEvent(line string) OutputEvent {
	return OutputEvent{Line: line}
}

// NewDiagnosticEvent wraps a runner-generated notice.
func NewDiagnosticEvent(line string) OutputEvent {
	return OutputEvent{Line: line, Diagnostic: true}
}

// NewCompletedEvent reports a child that exited on its own.
func NewCompletedEvent(exitCode int) OutputEvent {
	return OutputEvent{Terminal: TerminalKindCompleted, ExitCode: exitCode}
}

// NewCancelledEvent reports a run stopped on request.
func NewCancelledEvent() OutputEvent {
	return OutputEvent{Terminal: TerminalKindCancelled}
}

// NewSpawnFailedEvent reports a child that could not be started.
func NewSpawnFailedEvent(failure error) OutputEvent {
	return OutputEvent{Terminal: TerminalKindSpawnFailed, Err: failure}
}

// NewStreamErrorEvent reports an unrecoverable read failure on the output pipe.
func NewStreamErrorEvent(failure error) OutputEvent {
	return OutputEvent{Terminal: TerminalKindStreamError, Err: failure}
}
