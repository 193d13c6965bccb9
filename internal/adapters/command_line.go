package adapters

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

const (
	extraArgumentsFieldConstant    = "extra"
	extraArgumentsToolNameConstant = "arguments"
	malformedQuotingReasonTemplate = "malformed quoting: %v"
)

// SplitExtraArguments tokenizes free-form extra arguments with POSIX shell
// quoting rules. An empty string yields no tokens.
func SplitExtraArguments(raw string) ([]string, error) {
	return splitShellWords(extraArgumentsToolNameConstant, extraArgumentsFieldConstant, raw)
}

// FormatCommandLine renders an argument vector as a shell-quoted string suitable for previews.
func FormatCommandLine(arguments []string) string {
	return shellquote.Join(arguments...)
}

func splitShellWords(toolName string, field string, raw string) ([]string, error) {
	words, splitError := shellquote.Split(raw)
	if splitError != nil {
		return nil, newValidationError(toolName, field, fmt.Sprintf(malformedQuotingReasonTemplate, splitError))
	}
	if words == nil {
		return []string{}, nil
	}
	return words, nil
}
