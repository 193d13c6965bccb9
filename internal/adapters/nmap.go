package adapters

import (
	"regexp"
	"strings"
)

const (
	nmapToolNameConstant          = "nmap"
	nmapTargetFieldConstant       = "target"
	nmapScanTypeFieldConstant     = "scan_type"
	nmapPortsFieldConstant        = "ports"
	nmapPingScanFlagConstant      = "-sn"
	nmapSynScanFlagConstant       = "-sS"
	nmapConnectScanFlagConstant   = "-sT"
	nmapUDPScanFlagConstant       = "-sU"
	nmapPortsFlagConstant         = "-p"
	nmapSkipDiscoveryFlagConstant = "-Pn"
	nmapOSDetectionFlagConstant   = "-O"
	nmapVersionDetectionFlag      = "-sV"
	nmapFastScanFlagConstant      = "-F"
	nmapVerboseFlagConstant       = "-v"
	nmapPingScanConflictReason    = "cannot be combined with a ping scan"
	nmapPingScanExclusiveReason   = "ping cannot be combined with other scan types"
	nmapSynConnectConflictReason  = "syn and connect cannot be combined"
	nmapPortsReasonConstant       = "must be a port list such as 22,80,443 or 1-1024"
	nmapPortsPatternConstant      = `^[0-9TUSA:,\-]+$`
	nmapTargetWhitespaceReason    = "must not contain whitespace"
	nmapSynScanTypeConstant       = "syn"
	nmapPingScanTypeConstant      = "ping"
	nmapConnectScanTypeConstant   = "connect"
	nmapUDPScanTypeConstant       = "udp"
	nmapOSDetectionFieldConstant  = "os_detection"
	nmapVersionFieldConstant      = "service_version"
	nmapFastScanFieldConstant     = "fast_scan"
)

var (
	nmapScanTypeChoices = map[string]string{
		nmapSynScanTypeConstant:     nmapSynScanTypeConstant,
		"syn scan":                  nmapSynScanTypeConstant,
		"-ss":                       nmapSynScanTypeConstant,
		nmapConnectScanTypeConstant: nmapConnectScanTypeConstant,
		"tcp connect":               nmapConnectScanTypeConstant,
		"-st":                       nmapConnectScanTypeConstant,
		nmapUDPScanTypeConstant:     nmapUDPScanTypeConstant,
		"udp scan":                  nmapUDPScanTypeConstant,
		"-su":                       nmapUDPScanTypeConstant,
		nmapPingScanTypeConstant:    nmapPingScanTypeConstant,
		"ping scan":                 nmapPingScanTypeConstant,
		"-sn":                       nmapPingScanTypeConstant,
	}
	nmapOrderedScanTypes = []string{nmapSynScanTypeConstant, nmapConnectScanTypeConstant, nmapUDPScanTypeConstant, nmapPingScanTypeConstant}
	nmapScanTypeFlags    = map[string]string{
		nmapSynScanTypeConstant:     nmapSynScanFlagConstant,
		nmapConnectScanTypeConstant: nmapConnectScanFlagConstant,
		nmapUDPScanTypeConstant:     nmapUDPScanFlagConstant,
		nmapPingScanTypeConstant:    nmapPingScanFlagConstant,
	}
	nmapPortsPattern = regexp.MustCompile(nmapPortsPatternConstant)
)

type nmapParameters struct {
	Target            string   `mapstructure:"target"`
	ScanTypes         []string `mapstructure:"scan_type"`
	Ports             string   `mapstructure:"ports"`
	SkipHostDiscovery bool     `mapstructure:"skip_host_discovery"`
	OSDetection       bool     `mapstructure:"os_detection"`
	ServiceVersion    bool     `mapstructure:"service_version"`
	FastScan          bool     `mapstructure:"fast_scan"`
	Verbose           bool     `mapstructure:"verbose"`
}

// NmapAdapter builds host discovery and port scan commands.
type NmapAdapter struct{}

// NewNmapAdapter constructs an NmapAdapter.
func NewNmapAdapter() *NmapAdapter {
	return &NmapAdapter{}
}

// ToolName returns the canonical tool name.
func (adapter *NmapAdapter) ToolName() string {
	return nmapToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *NmapAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns the selected scan types, options and the target as the final argument.
// A ping scan excludes port selection and the probing options.
func (adapter *NmapAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded nmapParameters
	if decodeError := decodeParameters(nmapToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	target, targetError := requireText(nmapToolNameConstant, nmapTargetFieldConstant, decoded.Target)
	if targetError != nil {
		return nil, targetError
	}
	if strings.ContainsAny(target, " \t\n") {
		return nil, newValidationError(nmapToolNameConstant, nmapTargetFieldConstant, nmapTargetWhitespaceReason)
	}

	scanTypes, scanTypeError := nmapSelectedScanTypes(decoded.ScanTypes)
	if scanTypeError != nil {
		return nil, scanTypeError
	}

	ports := strings.ReplaceAll(strings.TrimSpace(decoded.Ports), " ", "")
	if len(ports) > 0 && !nmapPortsPattern.MatchString(ports) {
		return nil, newValidationError(nmapToolNameConstant, nmapPortsFieldConstant, nmapPortsReasonConstant)
	}

	arguments := make([]string, 0, len(scanTypes))
	for _, scanType := range nmapOrderedScanTypes {
		if scanTypes[scanType] {
			arguments = append(arguments, nmapScanTypeFlags[scanType])
		}
	}

	if scanTypes[nmapPingScanTypeConstant] {
		conflictingFields := []struct {
			field   string
			enabled bool
		}{
			{field: nmapPortsFieldConstant, enabled: len(ports) > 0},
			{field: nmapOSDetectionFieldConstant, enabled: decoded.OSDetection},
			{field: nmapVersionFieldConstant, enabled: decoded.ServiceVersion},
			{field: nmapFastScanFieldConstant, enabled: decoded.FastScan},
		}
		for _, conflictingField := range conflictingFields {
			if conflictingField.enabled {
				return nil, newValidationError(nmapToolNameConstant, conflictingField.field, nmapPingScanConflictReason)
			}
		}
		if decoded.SkipHostDiscovery {
			arguments = append(arguments, nmapSkipDiscoveryFlagConstant)
		}
	} else {
		if len(ports) > 0 {
			arguments = append(arguments, nmapPortsFlagConstant, ports)
		}
		if decoded.SkipHostDiscovery {
			arguments = append(arguments, nmapSkipDiscoveryFlagConstant)
		}
		if decoded.OSDetection {
			arguments = append(arguments, nmapOSDetectionFlagConstant)
		}
		if decoded.ServiceVersion {
			arguments = append(arguments, nmapVersionDetectionFlag)
		}
		if decoded.FastScan {
			arguments = append(arguments, nmapFastScanFlagConstant)
		}
	}

	if decoded.Verbose {
		arguments = append(arguments, nmapVerboseFlagConstant)
	}

	return append(arguments, target), nil
}

// nmapSelectedScanTypes normalizes the requested scan types. No selection
// leaves the scan technique to nmap.
func nmapSelectedScanTypes(values []string) (map[string]bool, error) {
	selected := make(map[string]bool, len(values))
	for _, value := range values {
		if len(strings.TrimSpace(value)) == 0 {
			continue
		}
		scanType, choiceError := requireChoice(nmapToolNameConstant, nmapScanTypeFieldConstant, value, nmapScanTypeChoices, nmapOrderedScanTypes)
		if choiceError != nil {
			return nil, choiceError
		}
		selected[scanType] = true
	}

	if selected[nmapPingScanTypeConstant] && len(selected) > 1 {
		return nil, newValidationError(nmapToolNameConstant, nmapScanTypeFieldConstant, nmapPingScanExclusiveReason)
	}
	if selected[nmapSynScanTypeConstant] && selected[nmapConnectScanTypeConstant] {
		return nil, newValidationError(nmapToolNameConstant, nmapScanTypeFieldConstant, nmapSynConnectConflictReason)
	}
	return selected, nil
}
