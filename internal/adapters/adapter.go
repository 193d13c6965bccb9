package adapters

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	validationErrorWithFieldTemplateConstant = "%s parameter %q: %s"
	validationErrorTemplateConstant          = "%s: %s"
	parametersFieldNameConstant              = "parameters"
	requiredValueMissingReasonConstant       = "value is required"
	fileNotFoundReasonTemplateConstant       = "file not found: %s"
	unsupportedChoiceReasonTemplateConstant  = "unsupported value %q (expected one of %s)"
	positiveIntegerReasonTemplateConstant    = "must be a positive integer, got %d"
	integerRangeReasonTemplateConstant       = "must be between %d and %d, got %d"
	schemeRequiredReasonConstant             = "must start with http:// or https://"
	schemeForbiddenReasonConstant            = "must be a bare domain without a scheme (e.g. example.com)"
	choiceListSeparatorConstant              = ", "
	listSeparatorConstant                    = ","
	mapstructureTagNameConstant              = "mapstructure"
	httpSchemePrefixConstant                 = "http://"
	httpsSchemePrefixConstant                = "https://"
)

// ParameterSet carries caller-supplied adapter fields keyed by name.
// Values are strings, booleans, or enumerated choices; numeric fields may be
// supplied as strings.
type ParameterSet map[string]any

// Clone returns a shallow copy of the parameter set.
func (parameters ParameterSet) Clone() ParameterSet {
	cloned := make(ParameterSet, len(parameters))
	for key, value := range parameters {
		cloned[key] = value
	}
	return cloned
}

// Adapter turns a ParameterSet into the argument suffix of a wrapped tool.
type Adapter interface {
	// ToolName returns the canonical tool name the adapter serves.
	ToolName() string
	// Validate reports the first problem with the parameters, or nil.
	Validate(parameters ParameterSet) error
	// BuildArguments returns the validated arguments in the order the tool expects.
	BuildArguments(parameters ParameterSet) ([]string, error)
}

// ValidationError describes why a parameter set cannot produce a command line.
type ValidationError struct {
	ToolName string
	Field    string
	Reason   string
}

// Error implements the error interface.
func (validationError *ValidationError) Error() string {
	if len(validationError.Field) == 0 {
		return fmt.Sprintf(validationErrorTemplateConstant, validationError.ToolName, validationError.Reason)
	}
	return fmt.Sprintf(validationErrorWithFieldTemplateConstant, validationError.ToolName, validationError.Field, validationError.Reason)
}

func newValidationError(toolName string, field string, reason string) *ValidationError {
	return &ValidationError{ToolName: toolName, Field: field, Reason: reason}
}

// FileChecker verifies that file-valued parameters reference existing files.
type FileChecker interface {
	FileExists(path string) bool
}

// OSFileChecker checks files on the local filesystem.
type OSFileChecker struct{}

// FileExists reports whether path names an existing non-directory file.
func (OSFileChecker) FileExists(path string) bool {
	fileInfo, statError := os.Stat(path)
	if statError != nil {
		return false
	}
	return !fileInfo.IsDir()
}

func resolveFileChecker(fileChecker FileChecker) FileChecker {
	if fileChecker == nil {
		return OSFileChecker{}
	}
	return fileChecker
}

// decodeParameters maps a ParameterSet onto a typed adapter parameter struct.
// Unknown keys are rejected so misspelled fields never silently disappear.
func decodeParameters(toolName string, parameters ParameterSet, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          mapstructureTagNameConstant,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(listSeparatorConstant),
	})
	if decoderError != nil {
		return newValidationError(toolName, parametersFieldNameConstant, decoderError.Error())
	}

	if decodeError := decoder.Decode(map[string]any(parameters)); decodeError != nil {
		return newValidationError(toolName, parametersFieldNameConstant, decodeError.Error())
	}
	return nil
}

func requireText(toolName string, field string, value string) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", newValidationError(toolName, field, requiredValueMissingReasonConstant)
	}
	return trimmedValue, nil
}

func requireExistingFile(fileChecker FileChecker, toolName string, field string, path string) (string, error) {
	trimmedPath, requiredError := requireText(toolName, field, path)
	if requiredError != nil {
		return "", requiredError
	}
	if !fileChecker.FileExists(trimmedPath) {
		return "", newValidationError(toolName, field, fmt.Sprintf(fileNotFoundReasonTemplateConstant, trimmedPath))
	}
	return trimmedPath, nil
}

func requireChoice(toolName string, field string, value string, choices map[string]string, orderedChoices []string) (string, error) {
	trimmedValue, requiredError := requireText(toolName, field, value)
	if requiredError != nil {
		return "", requiredError
	}
	if normalizedChoice, exists := choices[strings.ToLower(trimmedValue)]; exists {
		return normalizedChoice, nil
	}
	return "", newValidationError(toolName, field, fmt.Sprintf(unsupportedChoiceReasonTemplateConstant, trimmedValue, strings.Join(orderedChoices, choiceListSeparatorConstant)))
}

func optionalPositiveInteger(toolName string, field string, value int) (string, bool, error) {
	if value == 0 {
		return "", false, nil
	}
	if value < 0 {
		return "", false, newValidationError(toolName, field, fmt.Sprintf(positiveIntegerReasonTemplateConstant, value))
	}
	return strconv.Itoa(value), true, nil
}

func optionalIntegerInRange(toolName string, field string, value int, minimum int, maximum int) (string, bool, error) {
	if value == 0 {
		return "", false, nil
	}
	if value < minimum || value > maximum {
		return "", false, newValidationError(toolName, field, fmt.Sprintf(integerRangeReasonTemplateConstant, minimum, maximum, value))
	}
	return strconv.Itoa(value), true, nil
}

func hasWebScheme(target string) bool {
	lowered := strings.ToLower(target)
	return strings.HasPrefix(lowered, httpSchemePrefixConstant) || strings.HasPrefix(lowered, httpsSchemePrefixConstant)
}

func requireWebURL(toolName string, field string, value string) (string, error) {
	trimmedTarget, requiredError := requireText(toolName, field, value)
	if requiredError != nil {
		return "", requiredError
	}
	if !hasWebScheme(trimmedTarget) {
		return "", newValidationError(toolName, field, schemeRequiredReasonConstant)
	}
	if parsedURL, parseError := url.Parse(trimmedTarget); parseError != nil || len(parsedURL.Host) == 0 {
		return "", newValidationError(toolName, field, schemeRequiredReasonConstant)
	}
	return trimmedTarget, nil
}

func splitCommaList(value string) []string {
	rawItems := strings.Split(value, ",")
	items := make([]string, 0, len(rawItems))
	for _, rawItem := range rawItems {
		trimmedItem := strings.TrimSpace(rawItem)
		if len(trimmedItem) == 0 {
			continue
		}
		items = append(items, trimmedItem)
	}
	return items
}
