package adapters

import (
	"regexp"
	"strings"
)

const (
	gobusterToolNameConstant            = "gobuster"
	gobusterModeFieldConstant           = "mode"
	gobusterTargetFieldConstant         = "target"
	gobusterWordlistFieldConstant       = "wordlist"
	gobusterThreadsFieldConstant        = "threads"
	gobusterExtensionsFieldConstant     = "extensions"
	gobusterStatusCodesFieldConstant    = "status_codes"
	gobusterDirectoryModeConstant       = "dir"
	gobusterDNSModeConstant             = "dns"
	gobusterVirtualHostModeConstant     = "vhost"
	gobusterURLFlagConstant             = "-u"
	gobusterDomainFlagConstant          = "-d"
	gobusterWordlistFlagConstant        = "-w"
	gobusterThreadsFlagConstant         = "-t"
	gobusterExtensionsFlagConstant      = "-x"
	gobusterStatusCodesFlagConstant     = "-s"
	gobusterNoProgressFlagConstant      = "--no-progress"
	gobusterQuietFlagConstant           = "-q"
	gobusterStatusCodesReasonConstant   = "must be a comma separated list of three digit HTTP status codes"
	gobusterStatusCodesPatternConstant  = `^\d{3}(,\d{3})*$`
	gobusterExtensionsSeparatorConstant = ","
)

var (
	gobusterModeChoices = map[string]string{
		gobusterDirectoryModeConstant:   gobusterDirectoryModeConstant,
		"directory/file":                gobusterDirectoryModeConstant,
		gobusterDNSModeConstant:         gobusterDNSModeConstant,
		"dns subdomain":                 gobusterDNSModeConstant,
		gobusterVirtualHostModeConstant: gobusterVirtualHostModeConstant,
		"virtual host":                  gobusterVirtualHostModeConstant,
	}
	gobusterOrderedModes       = []string{gobusterDirectoryModeConstant, gobusterDNSModeConstant, gobusterVirtualHostModeConstant}
	gobusterStatusCodesPattern = regexp.MustCompile(gobusterStatusCodesPatternConstant)
	gobusterUnattendedFlags    = []string{gobusterNoProgressFlagConstant, gobusterQuietFlagConstant}
)

type gobusterParameters struct {
	Mode        string `mapstructure:"mode"`
	Target      string `mapstructure:"target"`
	Wordlist    string `mapstructure:"wordlist"`
	Threads     int    `mapstructure:"threads"`
	Extensions  string `mapstructure:"extensions"`
	StatusCodes string `mapstructure:"status_codes"`
}

// GobusterAdapter builds directory, DNS and virtual host enumeration commands.
type GobusterAdapter struct {
	fileChecker FileChecker
}

// NewGobusterAdapter constructs a GobusterAdapter. A nil checker uses the local filesystem.
func NewGobusterAdapter(fileChecker FileChecker) *GobusterAdapter {
	return &GobusterAdapter{fileChecker: resolveFileChecker(fileChecker)}
}

// ToolName returns the canonical tool name.
func (adapter *GobusterAdapter) ToolName() string {
	return gobusterToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *GobusterAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns mode, target, wordlist, optional tuning and the unattended flags.
func (adapter *GobusterAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded gobusterParameters
	if decodeError := decodeParameters(gobusterToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	mode, modeError := requireChoice(gobusterToolNameConstant, gobusterModeFieldConstant, decoded.Mode, gobusterModeChoices, gobusterOrderedModes)
	if modeError != nil {
		return nil, modeError
	}

	arguments := []string{mode}

	switch mode {
	case gobusterDNSModeConstant:
		domain, targetError := requireText(gobusterToolNameConstant, gobusterTargetFieldConstant, decoded.Target)
		if targetError != nil {
			return nil, targetError
		}
		if hasWebScheme(domain) {
			return nil, newValidationError(gobusterToolNameConstant, gobusterTargetFieldConstant, schemeForbiddenReasonConstant)
		}
		arguments = append(arguments, gobusterDomainFlagConstant, domain)
	default:
		targetURL, targetError := requireWebURL(gobusterToolNameConstant, gobusterTargetFieldConstant, decoded.Target)
		if targetError != nil {
			return nil, targetError
		}
		arguments = append(arguments, gobusterURLFlagConstant, targetURL)
	}

	wordlist, wordlistError := requireExistingFile(adapter.fileChecker, gobusterToolNameConstant, gobusterWordlistFieldConstant, decoded.Wordlist)
	if wordlistError != nil {
		return nil, wordlistError
	}
	arguments = append(arguments, gobusterWordlistFlagConstant, wordlist)

	threads, threadsPresent, threadsError := optionalPositiveInteger(gobusterToolNameConstant, gobusterThreadsFieldConstant, decoded.Threads)
	if threadsError != nil {
		return nil, threadsError
	}
	if threadsPresent {
		arguments = append(arguments, gobusterThreadsFlagConstant, threads)
	}

	if extensions := splitCommaList(decoded.Extensions); len(extensions) > 0 {
		arguments = append(arguments, gobusterExtensionsFlagConstant, strings.Join(extensions, gobusterExtensionsSeparatorConstant))
	}

	if statusCodes := strings.ReplaceAll(strings.TrimSpace(decoded.StatusCodes), " ", ""); len(statusCodes) > 0 {
		if !gobusterStatusCodesPattern.MatchString(statusCodes) {
			return nil, newValidationError(gobusterToolNameConstant, gobusterStatusCodesFieldConstant, gobusterStatusCodesReasonConstant)
		}
		arguments = append(arguments, gobusterStatusCodesFlagConstant, statusCodes)
	}

	return append(arguments, gobusterUnattendedFlags...), nil
}
