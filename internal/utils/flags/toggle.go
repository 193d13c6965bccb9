package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue      = "true"
	toggleFalseCanonicalValue     = "false"
	toggleParseErrorTemplate      = "invalid toggle value %q"
	toggleTruePlaceholderLiteral  = "<YES|no>"
	toggleFalsePlaceholderLiteral = "<yes|NO>"
	toggleUsageTemplate           = "`%s` %s"
	toggleFlagTypeName            = "bool"
	longFlagPrefixLiteral         = "--"
	shortFlagPrefixLiteral        = "-"
	flagValueSeparatorLiteral     = "="
)

var (
	toggleLiteralValues = map[string]bool{
		"true": true, "yes": true, "on": true, "1": true, "t": true, "y": true,
		"false": false, "no": false, "off": false, "0": false, "f": false, "n": false,
	}

	toggleRegistryMutex  sync.RWMutex
	registeredToggleKeys = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag that also accepts yes/no, on/off and
// similar values, written either as --flag=value or --flag value once the
// arguments pass through NormalizeToggleArguments.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	value := &toggleFlagValue{current: defaultValue, target: target}
	if target != nil {
		*target = defaultValue
	}
	flagSet.VarP(value, name, shorthand, formatToggleUsage(usage, defaultValue))
	if registeredFlag := flagSet.Lookup(name); registeredFlag != nil {
		registeredFlag.NoOptDefVal = toggleTrueCanonicalValue
	}

	toggleRegistryMutex.Lock()
	defer toggleRegistryMutex.Unlock()
	registeredToggleKeys[longFlagPrefixLiteral+name] = struct{}{}
	if len(shorthand) > 0 {
		registeredToggleKeys[shortFlagPrefixLiteral+shorthand] = struct{}{}
	}
}

// NormalizeToggleArguments joins a registered toggle flag with a following
// toggle literal so "--flag no" parses as "--flag=no". Arguments after "--"
// are left untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == longFlagPrefixLiteral {
			return append(normalized, arguments[index:]...)
		}
		if isRegisteredToggle(current) && index+1 < len(arguments) && isToggleLiteral(arguments[index+1]) {
			normalized = append(normalized, current+flagValueSeparatorLiteral+arguments[index+1])
			index++
			continue
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleFalsePlaceholderLiteral
	if defaultValue {
		placeholder = toggleTruePlaceholderLiteral
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(toggleUsageTemplate, placeholder, trimmedDescription)
}

func isRegisteredToggle(argument string) bool {
	if strings.Contains(argument, flagValueSeparatorLiteral) || !strings.HasPrefix(argument, shortFlagPrefixLiteral) {
		return false
	}
	toggleRegistryMutex.RLock()
	defer toggleRegistryMutex.RUnlock()
	_, registered := registeredToggleKeys[argument]
	return registered
}

func isToggleLiteral(argument string) bool {
	_, known := toggleLiteralValues[strings.ToLower(strings.TrimSpace(argument))]
	return known
}

type toggleFlagValue struct {
	current bool
	target  *bool
}

func (value *toggleFlagValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		normalizedValue = toggleTrueCanonicalValue
	}
	parsedValue, known := toggleLiteralValues[normalizedValue]
	if !known {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	value.current = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value != nil && value.current {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}
