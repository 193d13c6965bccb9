package execshell

import (
	"path/filepath"
	"strings"
)

const argumentVectorDisplaySeparatorConstant = " "

// ArgumentVector is the complete ordered argument list of a child process:
// the resolved invocation prefix, the adapter arguments and any extra tokens.
// Accessors return copies so a vector cannot change after construction.
type ArgumentVector struct {
	arguments []string
	label     string
}

// NewArgumentVector assembles a vector from the supplied segments in order.
func NewArgumentVector(segments ...[]string) ArgumentVector {
	totalLength := 0
	for _, segment := range segments {
		totalLength += len(segment)
	}
	arguments := make([]string, 0, totalLength)
	for _, segment := range segments {
		arguments = append(arguments, segment...)
	}
	return ArgumentVector{arguments: arguments}
}

// WithLabel returns a copy of the vector carrying a human-readable tool label
// used in runner diagnostics.
func (vector ArgumentVector) WithLabel(label string) ArgumentVector {
	return ArgumentVector{arguments: vector.Arguments(), label: strings.TrimSpace(label)}
}

// Arguments returns a copy of the ordered arguments.
func (vector ArgumentVector) Arguments() []string {
	return append([]string{}, vector.arguments...)
}

// Executable returns the first argument, or an empty string for an empty vector.
func (vector ArgumentVector) Executable() string {
	if len(vector.arguments) == 0 {
		return ""
	}
	return vector.arguments[0]
}

// Len returns the number of arguments.
func (vector ArgumentVector) Len() int {
	return len(vector.arguments)
}

// IsEmpty reports whether the vector has no arguments.
func (vector ArgumentVector) IsEmpty() bool {
	return len(vector.arguments) == 0
}

// Label returns the tool label, falling back to the executable base name.
func (vector ArgumentVector) Label() string {
	if len(vector.label) > 0 {
		return vector.label
	}
	if vector.IsEmpty() {
		return ""
	}
	return filepath.Base(vector.arguments[0])
}

// String joins the arguments with spaces. Use adapters.FormatCommandLine for a shell-quoted form.
func (vector ArgumentVector) String() string {
	return strings.Join(vector.arguments, argumentVectorDisplaySeparatorConstant)
}
