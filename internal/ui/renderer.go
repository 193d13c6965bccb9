package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/temirov/redboar/internal/adapters"
	"github.com/temirov/redboar/internal/classifier"
	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/orchestrator"
	"github.com/temirov/redboar/internal/utils"
)

const (
	startBannerTemplateConstant  = "Starting %s: %s"
	rejectedLineTemplateConstant = "ERROR: %s"
	lineTerminatorConstant       = "\n"
)

var (
	colorSuccess     = lipgloss.Color("#00D26A")
	colorRedirect    = lipgloss.Color("#4D96FF")
	colorWarning     = lipgloss.Color("#FFD93D")
	colorAmber       = lipgloss.Color("#FFB800")
	colorError       = lipgloss.Color("#FF3838")
	colorCritical    = lipgloss.Color("#FF0000")
	colorMuted       = lipgloss.Color("#6B7280")
	colorAccent      = lipgloss.Color("#00D4AA")
	colorBrand       = lipgloss.Color("#7D56F4")
	colorHighlighted = lipgloss.Color("#FAFAFA")
)

// OutputRenderer writes run output to a console, styling each line by its
// classifier category. It implements orchestrator.RunObserver and is safe for
// concurrent use.
type OutputRenderer struct {
	writer          io.Writer
	profile         termenv.Profile
	categoryStyles  map[classifier.Category]lipgloss.Style
	bannerStyle     lipgloss.Style
	diagnosticStyle lipgloss.Style
	errorStyle      lipgloss.Style
	messages        execshell.DiagnosticMessageFormatter
	mutex           sync.Mutex
}

// NewOutputRenderer builds a renderer for writer using the supplied colour mode.
func NewOutputRenderer(writer io.Writer, mode ColorMode) *OutputRenderer {
	if writer == nil {
		writer = io.Discard
	}
	profile := DetectColorProfile(writer, mode)
	styleRenderer := lipgloss.NewRenderer(writer)
	styleRenderer.SetColorProfile(profile)

	newStyle := func(color lipgloss.Color) lipgloss.Style {
		return styleRenderer.NewStyle().Foreground(color)
	}

	return &OutputRenderer{
		writer:  utils.NewFlushingWriter(writer),
		profile: profile,
		categoryStyles: map[classifier.Category]lipgloss.Style{
			classifier.CategoryNeutral:           styleRenderer.NewStyle(),
			classifier.CategoryError:             newStyle(colorError).Bold(true),
			classifier.CategoryInfo:              newStyle(colorMuted),
			classifier.CategoryStatusSuccess:     newStyle(colorSuccess),
			classifier.CategoryStatusRedirect:    newStyle(colorRedirect),
			classifier.CategoryStatusAuth:        newStyle(colorAmber),
			classifier.CategoryStatusForbidden:   newStyle(colorWarning),
			classifier.CategoryStatusServerError: newStyle(colorError),
			classifier.CategoryHostUp:            newStyle(colorSuccess).Bold(true),
			classifier.CategoryPortOpen:          newStyle(colorSuccess).Bold(true),
			classifier.CategoryPortClosed:        newStyle(colorMuted),
			classifier.CategoryPortFiltered:      newStyle(colorWarning),
			classifier.CategoryServiceDetail:     newStyle(colorAccent),
			classifier.CategoryFlaggedFinding:    newStyle(colorCritical).Bold(true),
			classifier.CategoryServerBanner:      newStyle(colorAccent).Italic(true),
			classifier.CategoryCrackedCredential: newStyle(colorCritical).Bold(true).Underline(true),
			classifier.CategoryProgressStatus:    newStyle(colorMuted).Italic(true),
			classifier.CategoryDatabaseDetail:    newStyle(colorAccent).Bold(true),
			classifier.CategoryExtractedData:     newStyle(colorHighlighted).Bold(true),
		},
		bannerStyle:     newStyle(colorBrand).Bold(true),
		diagnosticStyle: newStyle(colorAmber).Italic(true),
		errorStyle:      newStyle(colorError).Bold(true),
	}
}

// Profile reports the colour profile in use.
func (renderer *OutputRenderer) Profile() termenv.Profile {
	return renderer.profile
}

// RenderLine styles one output line of the named tool.
func (renderer *OutputRenderer) RenderLine(toolName string, line string) string {
	style, exists := renderer.categoryStyles[classifier.Classify(toolName, line)]
	if !exists {
		return line
	}
	return style.Render(line)
}

// RunStarted prints the start banner with the shell-quoted command.
func (renderer *OutputRenderer) RunStarted(run orchestrator.RunHandle) {
	label := RunEventFormatter{}.label(run.DisplayName, run.ToolName)
	renderer.writeLine(renderer.bannerStyle.Render(fmt.Sprintf(startBannerTemplateConstant, label, adapters.FormatCommandLine(run.Vector.Arguments()))))
}

// RunOutput prints a line, a runner diagnostic or the closing status line.
func (renderer *OutputRenderer) RunOutput(run orchestrator.RunHandle, event execshell.OutputEvent) {
	label := RunEventFormatter{}.label(run.DisplayName, run.ToolName)
	switch event.Terminal {
	case execshell.TerminalKindNone:
		if event.Diagnostic {
			renderer.writeLine(renderer.diagnosticStyle.Render(event.Line))
			return
		}
		renderer.writeLine(renderer.RenderLine(run.ToolName, event.Line))
	case execshell.TerminalKindCompleted:
		renderer.writeLine(renderer.diagnosticStyle.Render(renderer.messages.Finished(label, event.ExitCode)))
	case execshell.TerminalKindSpawnFailed:
		renderer.writeLine(renderer.errorStyle.Render(renderer.messages.SpawnFailed(label, run.Vector.Executable(), event.Err)))
	case execshell.TerminalKindStreamError:
		renderer.writeLine(renderer.errorStyle.Render(renderer.messages.StreamFailed(label, event.Err)))
	}
}

// RunFinished implements orchestrator.RunObserver; the closing line is printed from RunOutput.
func (renderer *OutputRenderer) RunFinished(orchestrator.RunStatus) {}

// RunRejected prints the reason a run was refused.
func (renderer *OutputRenderer) RunRejected(_ orchestrator.StartRequest, rejection error) {
	renderer.writeLine(renderer.errorStyle.Render(fmt.Sprintf(rejectedLineTemplateConstant, failureDescription(rejection))))
}

func (renderer *OutputRenderer) writeLine(text string) {
	renderer.mutex.Lock()
	defer renderer.mutex.Unlock()
	_, _ = io.WriteString(renderer.writer, strings.TrimRight(text, lineTerminatorConstant)+lineTerminatorConstant)
}
