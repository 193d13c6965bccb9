package adapters

import "strings"

const (
	johnToolNameConstant        = "john"
	johnModeFieldConstant       = "mode"
	johnHashFileFieldConstant   = "hash_file"
	johnWordlistFieldConstant   = "wordlist"
	johnCrackModeConstant       = "crack"
	johnShowModeConstant        = "show"
	johnShowFlagConstant        = "--show"
	johnFormatFlagPrefix        = "--format="
	johnWordlistFlagPrefix      = "--wordlist="
	johnSessionFlagPrefix       = "--session="
	johnWordlistInShowModeField = "wordlist"
	johnWordlistInShowReason    = "is not used when showing cracked passwords"
)

var (
	johnModeChoices = map[string]string{
		johnCrackModeConstant:    johnCrackModeConstant,
		"crack passwords":        johnCrackModeConstant,
		johnShowModeConstant:     johnShowModeConstant,
		"show cracked passwords": johnShowModeConstant,
	}
	johnOrderedModes = []string{johnCrackModeConstant, johnShowModeConstant}
)

type johnParameters struct {
	Mode     string `mapstructure:"mode"`
	HashFile string `mapstructure:"hash_file"`
	Wordlist string `mapstructure:"wordlist"`
	Format   string `mapstructure:"format"`
	Session  string `mapstructure:"session"`
}

// JohnAdapter builds John the Ripper crack and show commands.
type JohnAdapter struct {
	fileChecker FileChecker
}

// NewJohnAdapter constructs a JohnAdapter. A nil checker uses the local filesystem.
func NewJohnAdapter(fileChecker FileChecker) *JohnAdapter {
	return &JohnAdapter{fileChecker: resolveFileChecker(fileChecker)}
}

// ToolName returns the canonical tool name.
func (adapter *JohnAdapter) ToolName() string {
	return johnToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *JohnAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns either the show vector or the crack vector.
// The mode defaults to crack.
func (adapter *JohnAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded johnParameters
	if decodeError := decodeParameters(johnToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	modeValue := decoded.Mode
	if len(strings.TrimSpace(modeValue)) == 0 {
		modeValue = johnCrackModeConstant
	}
	mode, modeError := requireChoice(johnToolNameConstant, johnModeFieldConstant, modeValue, johnModeChoices, johnOrderedModes)
	if modeError != nil {
		return nil, modeError
	}

	format := strings.TrimSpace(decoded.Format)
	session := strings.TrimSpace(decoded.Session)

	if mode == johnShowModeConstant {
		hashFile, hashFileError := requireText(johnToolNameConstant, johnHashFileFieldConstant, decoded.HashFile)
		if hashFileError != nil {
			return nil, hashFileError
		}
		if len(strings.TrimSpace(decoded.Wordlist)) > 0 {
			return nil, newValidationError(johnToolNameConstant, johnWordlistInShowModeField, johnWordlistInShowReason)
		}
		arguments := []string{johnShowFlagConstant}
		if len(format) > 0 {
			arguments = append(arguments, johnFormatFlagPrefix+format)
		}
		arguments = append(arguments, hashFile)
		if len(session) > 0 {
			arguments = append(arguments, johnSessionFlagPrefix+session)
		}
		return arguments, nil
	}

	hashFile, hashFileError := requireExistingFile(adapter.fileChecker, johnToolNameConstant, johnHashFileFieldConstant, decoded.HashFile)
	if hashFileError != nil {
		return nil, hashFileError
	}
	arguments := []string{hashFile}

	if len(strings.TrimSpace(decoded.Wordlist)) > 0 {
		wordlist, wordlistError := requireExistingFile(adapter.fileChecker, johnToolNameConstant, johnWordlistFieldConstant, decoded.Wordlist)
		if wordlistError != nil {
			return nil, wordlistError
		}
		arguments = append(arguments, johnWordlistFlagPrefix+wordlist)
	}
	if len(format) > 0 {
		arguments = append(arguments, johnFormatFlagPrefix+format)
	}
	if len(session) > 0 {
		arguments = append(arguments, johnSessionFlagPrefix+session)
	}
	return arguments, nil
}
