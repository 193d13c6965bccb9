package scan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/redboar/internal/adapters"
	"github.com/temirov/redboar/internal/resolver"
	flagutils "github.com/temirov/redboar/internal/utils/flags"
	pathutils "github.com/temirov/redboar/internal/utils/path"
)

const (
	assignmentSeparatorConstant                = "="
	missingAssignmentSeparatorTemplateConstant = "invalid --param %q: expected key=value"
	emptyAssignmentKeyTemplateConstant         = "invalid --param %q: key is empty"
	parametersFileReadErrorTemplateConstant    = "unable to read parameters file %s: %w"
	parametersFileParseErrorTemplateConstant   = "unable to parse parameters file %s: %w"
	toolNameRequiredMessageConstant            = "tool name required"
)

// fileParameterKeys name the adapter fields that hold filesystem paths.
var fileParameterKeys = []string{"wordlist", "hash_file", "login_file", "password_file", "templates"}

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider yields the effective scan configuration.
type ConfigurationProvider func() Configuration

// Dependencies holds collaborators that tests replace.
type Dependencies struct {
	LookPath     resolver.LookPathFunc
	FileChecker  adapters.FileChecker
	HomeExpander *pathutils.HomeExpander
}

func (dependencies Dependencies) homeExpander() *pathutils.HomeExpander {
	if dependencies.HomeExpander != nil {
		return dependencies.HomeExpander
	}
	return pathutils.NewHomeExpander()
}

func (dependencies Dependencies) newRegistry() *adapters.Registry {
	return adapters.NewDefaultRegistry(dependencies.FileChecker)
}

func (dependencies Dependencies) newResolver(specifications []resolver.ToolSpec, logger *zap.Logger) *resolver.Resolver {
	options := []resolver.Option{resolver.WithLogger(logger)}
	if dependencies.LookPath != nil {
		options = append(options, resolver.WithLookPath(dependencies.LookPath))
	}
	return resolver.NewResolver(specifications, options...)
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfiguration(provider ConfigurationProvider, expander *pathutils.HomeExpander) Configuration {
	if provider == nil {
		return DefaultConfiguration().Sanitize(expander)
	}
	return provider().Sanitize(expander)
}

// CollectParameters merges the parameters file with --param assignments.
// Assignments win over file values. File-valued fields have ~ expanded.
func CollectParameters(values *flagutils.ParameterFlagValues, expander *pathutils.HomeExpander) (adapters.ParameterSet, error) {
	parameters := adapters.ParameterSet{}
	if values == nil {
		return parameters, nil
	}
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}

	parametersFilePath := strings.TrimSpace(values.ParametersFile)
	if len(parametersFilePath) > 0 {
		fileParameters, loadError := loadParametersFile(expander.Expand(parametersFilePath))
		if loadError != nil {
			return nil, loadError
		}
		for key, value := range fileParameters {
			parameters[key] = value
		}
	}

	for _, assignment := range values.Assignments {
		key, value, found := strings.Cut(assignment, assignmentSeparatorConstant)
		if !found {
			return nil, fmt.Errorf(missingAssignmentSeparatorTemplateConstant, assignment)
		}
		key = strings.TrimSpace(key)
		if len(key) == 0 {
			return nil, fmt.Errorf(emptyAssignmentKeyTemplateConstant, assignment)
		}
		parameters[key] = value
	}

	expander.ExpandParameters(parameters, fileParameterKeys...)
	return parameters, nil
}

func loadParametersFile(path string) (map[string]any, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return nil, fmt.Errorf(parametersFileReadErrorTemplateConstant, path, readError)
	}
	decoded := map[string]any{}
	if decodeError := yaml.Unmarshal(content, &decoded); decodeError != nil {
		return nil, fmt.Errorf(parametersFileParseErrorTemplateConstant, path, decodeError)
	}
	return decoded, nil
}

func toolNameFromArguments(arguments []string) (string, error) {
	if len(arguments) == 0 || len(strings.TrimSpace(arguments[0])) == 0 {
		return "", errors.New(toolNameRequiredMessageConstant)
	}
	return strings.TrimSpace(arguments[0]), nil
}
