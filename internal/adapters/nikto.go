package adapters

import "strings"

const (
	niktoToolNameConstant      = "nikto"
	niktoTargetFieldConstant   = "target"
	niktoPortFieldConstant     = "port"
	niktoHostFlagConstant      = "-h"
	niktoPortFlagConstant      = "-p"
	niktoTuningFlagConstant    = "-Tuning"
	niktoSSLFlagConstant       = "-ssl"
	niktoAskFlagConstant       = "-ask"
	niktoAskNoValueConstant    = "no"
	niktoDisplayFlagConstant   = "-Display"
	niktoDisplayValueConstant  = "1234D"
	niktoMaximumPortConstant   = 65535
	niktoMinimumPortConstant   = 1
	niktoTuningCharsetConstant = "0123456789abcdex"
	niktoTuningFieldConstant   = "tuning"
	niktoTuningReasonConstant  = "must contain only nikto tuning codes (0-9, a-e, x)"
)

type niktoParameters struct {
	Target string `mapstructure:"target"`
	Port   int    `mapstructure:"port"`
	Tuning string `mapstructure:"tuning"`
	SSL    bool   `mapstructure:"ssl"`
}

// NiktoAdapter builds web server scan commands.
type NiktoAdapter struct{}

// NewNiktoAdapter constructs a NiktoAdapter.
func NewNiktoAdapter() *NiktoAdapter {
	return &NiktoAdapter{}
}

// ToolName returns the canonical tool name.
func (adapter *NiktoAdapter) ToolName() string {
	return niktoToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *NiktoAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns host, optional port, tuning and TLS flags plus the non-interactive display flags.
func (adapter *NiktoAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded niktoParameters
	if decodeError := decodeParameters(niktoToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	target, targetError := requireText(niktoToolNameConstant, niktoTargetFieldConstant, decoded.Target)
	if targetError != nil {
		return nil, targetError
	}

	arguments := []string{niktoHostFlagConstant, target}

	port, portPresent, portError := optionalIntegerInRange(niktoToolNameConstant, niktoPortFieldConstant, decoded.Port, niktoMinimumPortConstant, niktoMaximumPortConstant)
	if portError != nil {
		return nil, portError
	}
	if portPresent {
		arguments = append(arguments, niktoPortFlagConstant, port)
	}

	if tuning := normalizeTuning(decoded.Tuning); len(tuning) > 0 {
		for _, tuningCode := range tuning {
			if !strings.ContainsRune(niktoTuningCharsetConstant, tuningCode) {
				return nil, newValidationError(niktoToolNameConstant, niktoTuningFieldConstant, niktoTuningReasonConstant)
			}
		}
		arguments = append(arguments, niktoTuningFlagConstant, tuning)
	}

	if decoded.SSL {
		arguments = append(arguments, niktoSSLFlagConstant)
	}

	return append(arguments, niktoAskFlagConstant, niktoAskNoValueConstant, niktoDisplayFlagConstant, niktoDisplayValueConstant), nil
}

func normalizeTuning(value string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", ",", "").Replace(value))
}
