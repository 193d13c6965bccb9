package adapters

import (
	"fmt"
	"strings"
)

const (
	hydraToolNameConstant          = "hydra"
	hydraTargetFieldConstant       = "target"
	hydraServiceFieldConstant      = "service"
	hydraLoginFieldConstant        = "login"
	hydraLoginFileFieldConstant    = "login_file"
	hydraPasswordFieldConstant     = "password"
	hydraPasswordFileFieldConstant = "password_file"
	hydraTasksFieldConstant        = "tasks"
	hydraLoginFlagConstant         = "-l"
	hydraLoginFileFlagConstant     = "-L"
	hydraPasswordFlagConstant      = "-p"
	hydraPasswordFileFlagConstant  = "-P"
	hydraTasksFlagConstant         = "-t"
	hydraIgnoreRestoreFlagConstant = "-I"
	hydraExclusiveReasonTemplate   = "cannot be combined with %s"
	hydraEitherRequiredReason      = "either %s or %s is required"
)

type hydraParameters struct {
	Target       string `mapstructure:"target"`
	Service      string `mapstructure:"service"`
	Login        string `mapstructure:"login"`
	LoginFile    string `mapstructure:"login_file"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password_file"`
	Tasks        int    `mapstructure:"tasks"`
}

// HydraAdapter builds network login brute-force commands.
type HydraAdapter struct {
	fileChecker FileChecker
}

// NewHydraAdapter constructs a HydraAdapter. A nil checker uses the local filesystem.
func NewHydraAdapter(fileChecker FileChecker) *HydraAdapter {
	return &HydraAdapter{fileChecker: resolveFileChecker(fileChecker)}
}

// ToolName returns the canonical tool name.
func (adapter *HydraAdapter) ToolName() string {
	return hydraToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *HydraAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns credentials, task count, the restore override, target and service.
func (adapter *HydraAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded hydraParameters
	if decodeError := decodeParameters(hydraToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	loginArguments, loginError := adapter.credentialArguments(
		decoded.Login, hydraLoginFieldConstant, hydraLoginFlagConstant,
		decoded.LoginFile, hydraLoginFileFieldConstant, hydraLoginFileFlagConstant,
	)
	if loginError != nil {
		return nil, loginError
	}

	passwordArguments, passwordError := adapter.credentialArguments(
		decoded.Password, hydraPasswordFieldConstant, hydraPasswordFlagConstant,
		decoded.PasswordFile, hydraPasswordFileFieldConstant, hydraPasswordFileFlagConstant,
	)
	if passwordError != nil {
		return nil, passwordError
	}

	tasks, tasksPresent, tasksError := optionalPositiveInteger(hydraToolNameConstant, hydraTasksFieldConstant, decoded.Tasks)
	if tasksError != nil {
		return nil, tasksError
	}

	target, targetError := requireText(hydraToolNameConstant, hydraTargetFieldConstant, decoded.Target)
	if targetError != nil {
		return nil, targetError
	}
	service, serviceError := requireText(hydraToolNameConstant, hydraServiceFieldConstant, decoded.Service)
	if serviceError != nil {
		return nil, serviceError
	}

	arguments := append(loginArguments, passwordArguments...)
	if tasksPresent {
		arguments = append(arguments, hydraTasksFlagConstant, tasks)
	}
	return append(arguments, hydraIgnoreRestoreFlagConstant, target, strings.ToLower(service)), nil
}

func (adapter *HydraAdapter) credentialArguments(literalValue string, literalField string, literalFlag string, fileValue string, fileField string, fileFlag string) ([]string, error) {
	trimmedLiteral := strings.TrimSpace(literalValue)
	trimmedFile := strings.TrimSpace(fileValue)

	switch {
	case len(trimmedLiteral) > 0 && len(trimmedFile) > 0:
		return nil, newValidationError(hydraToolNameConstant, fileField, fmt.Sprintf(hydraExclusiveReasonTemplate, literalField))
	case len(trimmedLiteral) > 0:
		return []string{literalFlag, trimmedLiteral}, nil
	case len(trimmedFile) > 0:
		existingFile, fileError := requireExistingFile(adapter.fileChecker, hydraToolNameConstant, fileField, trimmedFile)
		if fileError != nil {
			return nil, fileError
		}
		return []string{fileFlag, existingFile}, nil
	default:
		return nil, newValidationError(hydraToolNameConstant, literalField, fmt.Sprintf(hydraEitherRequiredReason, literalField, fileField))
	}
}
