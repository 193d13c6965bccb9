package adapters

import (
	"fmt"
	"strings"
)

const (
	nucleiToolNameConstant          = "nuclei"
	nucleiTargetFieldConstant       = "target"
	nucleiSeverityFieldConstant     = "severity"
	nucleiRateLimitFieldConstant    = "rate_limit"
	nucleiTargetFlagConstant        = "-u"
	nucleiTemplatesFlagConstant     = "-t"
	nucleiSeverityFlagConstant      = "-s"
	nucleiRateLimitFlagConstant     = "-rl"
	nucleiNoColorFlagConstant       = "-nc"
	nucleiDisableUpdateFlagConstant = "-duc"
	nucleiSeverityReasonTemplate    = "unsupported severity %q (expected one of %s)"
	nucleiSeveritySeparatorConstant = ","
)

var nucleiOrderedSeverities = []string{"info", "low", "medium", "high", "critical"}

type nucleiParameters struct {
	Target    string `mapstructure:"target"`
	Templates string `mapstructure:"templates"`
	Severity  string `mapstructure:"severity"`
	RateLimit int    `mapstructure:"rate_limit"`
}

// NucleiAdapter builds template-driven vulnerability scan commands.
type NucleiAdapter struct{}

// NewNucleiAdapter constructs a NucleiAdapter.
func NewNucleiAdapter() *NucleiAdapter {
	return &NucleiAdapter{}
}

// ToolName returns the canonical tool name.
func (adapter *NucleiAdapter) ToolName() string {
	return nucleiToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *NucleiAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns target, template and severity selection, rate limit and the unattended flags.
func (adapter *NucleiAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded nucleiParameters
	if decodeError := decodeParameters(nucleiToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	target, targetError := requireText(nucleiToolNameConstant, nucleiTargetFieldConstant, decoded.Target)
	if targetError != nil {
		return nil, targetError
	}
	arguments := []string{nucleiTargetFlagConstant, target}

	if templates := strings.TrimSpace(decoded.Templates); len(templates) > 0 {
		arguments = append(arguments, nucleiTemplatesFlagConstant, templates)
	}

	if severities := splitCommaList(decoded.Severity); len(severities) > 0 {
		normalizedSeverities := make([]string, 0, len(severities))
		for _, severity := range severities {
			normalizedSeverity := strings.ToLower(severity)
			if !isKnownSeverity(normalizedSeverity) {
				return nil, newValidationError(nucleiToolNameConstant, nucleiSeverityFieldConstant, fmt.Sprintf(nucleiSeverityReasonTemplate, severity, strings.Join(nucleiOrderedSeverities, choiceListSeparatorConstant)))
			}
			normalizedSeverities = append(normalizedSeverities, normalizedSeverity)
		}
		arguments = append(arguments, nucleiSeverityFlagConstant, strings.Join(normalizedSeverities, nucleiSeveritySeparatorConstant))
	}

	rateLimit, rateLimitPresent, rateLimitError := optionalPositiveInteger(nucleiToolNameConstant, nucleiRateLimitFieldConstant, decoded.RateLimit)
	if rateLimitError != nil {
		return nil, rateLimitError
	}
	if rateLimitPresent {
		arguments = append(arguments, nucleiRateLimitFlagConstant, rateLimit)
	}

	return append(arguments, nucleiNoColorFlagConstant, nucleiDisableUpdateFlagConstant), nil
}

func isKnownSeverity(severity string) bool {
	for _, knownSeverity := range nucleiOrderedSeverities {
		if knownSeverity == severity {
			return true
		}
	}
	return false
}
