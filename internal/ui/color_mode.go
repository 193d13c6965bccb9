package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode selects when the renderer emits ANSI styling.
type ColorMode string

// Supported colour modes.
const (
	ColorModeAuto   ColorMode = "auto"
	ColorModeAlways ColorMode = "always"
	ColorModeNever  ColorMode = "never"
)

const (
	unsupportedColorModeTemplateConstant = "unsupported color mode %q"
	dumbTerminalNameConstant             = "dumb"
	terminalEnvironmentVariableConstant  = "TERM"
)

// ColorModeChoices lists the accepted colour modes in display order.
func ColorModeChoices() []string {
	return []string{string(ColorModeAuto), string(ColorModeAlways), string(ColorModeNever)}
}

// ParseColorMode normalizes a user-supplied colour mode. Empty input selects auto.
func ParseColorMode(rawValue string) (ColorMode, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	switch ColorMode(normalizedValue) {
	case "", ColorModeAuto:
		return ColorModeAuto, nil
	case ColorModeAlways:
		return ColorModeAlways, nil
	case ColorModeNever:
		return ColorModeNever, nil
	default:
		return "", fmt.Errorf(unsupportedColorModeTemplateConstant, rawValue)
	}
}

// DetectColorProfile picks the termenv profile for writer. Auto mode styles
// only terminals that are not dumb and honours NO_COLOR through termenv.
func DetectColorProfile(writer io.Writer, mode ColorMode) termenv.Profile {
	switch mode {
	case ColorModeNever:
		return termenv.Ascii
	case ColorModeAlways:
		profile := termenv.NewOutput(writer).EnvColorProfile()
		if profile == termenv.Ascii {
			return termenv.ANSI
		}
		return profile
	}

	file, isFile := writer.(*os.File)
	if !isFile || !term.IsTerminal(int(file.Fd())) {
		return termenv.Ascii
	}
	if os.Getenv(terminalEnvironmentVariableConstant) == dumbTerminalNameConstant {
		return termenv.Ascii
	}
	return termenv.NewOutput(writer).EnvColorProfile()
}
