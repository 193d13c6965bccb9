package classifier

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	gobusterToolKeyConstant = "gobuster"
	nmapToolKeyConstant     = "nmap"
	sqlmapToolKeyConstant   = "sqlmap"
	niktoToolKeyConstant    = "nikto"
	johnToolKeyConstant     = "john"
	johnDisplayKeyConstant  = "johntheripper"
	hydraToolKeyConstant    = "hydra"
	nucleiToolKeyConstant   = "nuclei"
)

var (
	gobusterStatusPattern  = regexp.MustCompile(`\(Status: (\d{3})\)`)
	johnCrackedPattern     = regexp.MustCompile(`^\S+\s+\(?[^)]+\)?\s*$`)
	johnProgressPattern    = regexp.MustCompile(`^\d+g \d+:\d+:\d+:\d+`)
	hydraCredentialPattern = regexp.MustCompile(`^\[\d+\]\[[^\]]+\]\s+host:\s+\S+.*\blogin:\s+\S+.*\bpassword:`)
	nucleiFindingPattern   = regexp.MustCompile(`\[(critical|high|medium|low)\]`)
	nmapPortRowPattern     = regexp.MustCompile(`^\d+/(tcp|udp|sctp)\s+(\S+)`)
)

type lineRule struct {
	category Category
	matches  func(line string) bool
}

var toolRules = map[string][]lineRule{
	gobusterToolKeyConstant: {
		{category: CategoryStatusSuccess, matches: gobusterStatusIn(200, 200)},
		{category: CategoryStatusRedirect, matches: gobusterStatusIn(300, 399)},
		{category: CategoryStatusAuth, matches: gobusterStatusIn(401, 401)},
		{category: CategoryStatusForbidden, matches: gobusterStatusIn(403, 403)},
		{category: CategoryStatusServerError, matches: gobusterStatusIn(500, 599)},
		{category: CategoryStatusSuccess, matches: func(line string) bool {
			return strings.HasPrefix(line, "Found:") && !gobusterStatusPattern.MatchString(line)
		}},
	},
	nmapToolKeyConstant: {
		{category: CategoryServiceDetail, matches: containsAny("Service Info:", "OS details:", "MAC Address:")},
		{category: CategoryHostUp, matches: containsAny("Host is up")},
		{category: CategoryPortOpen, matches: nmapPortStateIs("open")},
		{category: CategoryPortClosed, matches: nmapPortStateIs("closed")},
		{category: CategoryPortFiltered, matches: nmapPortStateIs("filtered", "open|filtered", "closed|filtered")},
		{category: CategoryPortOpen, matches: func(line string) bool {
			return strings.Contains(line, "/open") && !strings.Contains(line, "//")
		}},
		{category: CategoryPortClosed, matches: func(line string) bool {
			return strings.Contains(line, "/closed") && !strings.Contains(line, "://")
		}},
		{category: CategoryPortFiltered, matches: func(line string) bool {
			return strings.Contains(line, "/filtered") && !strings.Contains(line, "://")
		}},
	},
	sqlmapToolKeyConstant: {
		{category: CategoryInfo, matches: containsAny("[INFO]", "[DEBUG]", "[WARNING]")},
		{category: CategoryDatabaseDetail, matches: func(line string) bool {
			return strings.Contains(line, "DBMS") && strings.Contains(line, ":")
		}},
		{category: CategoryExtractedData, matches: func(line string) bool {
			lowered := strings.ToLower(line)
			if strings.Contains(lowered, "fetched data") {
				return true
			}
			if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") && !strings.Contains(line, ":") {
				return true
			}
			return strings.Contains(line, "|") && !strings.Contains(lowered, "banner")
		}},
		{category: CategoryFlaggedFinding, matches: func(line string) bool {
			lowered := strings.ToLower(line)
			return strings.Contains(lowered, "vulnerable") && !strings.Contains(lowered, "not vulnerable")
		}},
	},
	niktoToolKeyConstant: {
		{category: CategoryFlaggedFinding, matches: func(line string) bool {
			return strings.HasPrefix(line, "+") && (strings.Contains(line, "OSVDB") || strings.Contains(line, "CVE-") || strings.Contains(strings.ToLower(line), "vulnerability"))
		}},
		{category: CategoryServerBanner, matches: hasPrefix("+ Server:")},
		{category: CategoryInfo, matches: hasPrefix("+")},
	},
	johnToolKeyConstant: {
		{category: CategoryInfo, matches: containsAny("No password")},
		{category: CategoryCrackedCredential, matches: isJohnCrackedLine},
		{category: CategoryProgressStatus, matches: containsAny("guesses:", "Proceeding with", "Loaded", "Remaining", "words:", "g/s")},
	},
	hydraToolKeyConstant: {
		{category: CategoryCrackedCredential, matches: hydraCredentialPattern.MatchString},
		{category: CategoryProgressStatus, matches: hasPrefix("[STATUS]", "[ATTEMPT]", "[DATA]")},
	},
	nucleiToolKeyConstant: {
		{category: CategoryError, matches: hasPrefix("[ERR]", "[FTL]")},
		{category: CategoryInfo, matches: hasPrefix("[INF]", "[WRN]")},
		{category: CategoryFlaggedFinding, matches: nucleiFindingPattern.MatchString},
	},
}

var genericRules = []lineRule{
	{category: CategoryError, matches: func(line string) bool {
		if strings.Contains(line, "ERROR:") || strings.Contains(line, "Error:") || strings.Contains(line, "[Errno") || strings.Contains(line, "[CRITICAL]") {
			return true
		}
		if strings.Contains(strings.ToLower(line), "critical error") {
			return true
		}
		return strings.Contains(line, "Failed") && !strings.Contains(line, "Failed login")
	}},
	{category: CategoryInfo, matches: func(line string) bool {
		return hasPrefix("---", "===", "[*]", "[+]")(line) || containsAny("[INFO]", "[DEBUG]", "[VERBOSE]")(line)
	}},
}

// Classify assigns a display category to one output line of the named tool.
// Tool-specific rules are tried first in a fixed order, then the generic error
// and informational rules. The tool may be given by canonical or display name.
func Classify(toolName string, line string) Category {
	trimmedLine := strings.TrimSpace(line)
	if len(trimmedLine) == 0 {
		return CategoryNeutral
	}

	for _, rule := range toolRules[toolKey(toolName)] {
		if rule.matches(trimmedLine) {
			return rule.category
		}
	}
	for _, rule := range genericRules {
		if rule.matches(trimmedLine) {
			return rule.category
		}
	}
	return CategoryNeutral
}

func toolKey(toolName string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(toolName), " ", ""))
	if key == johnDisplayKeyConstant {
		return johnToolKeyConstant
	}
	return key
}

func gobusterStatusIn(minimum int, maximum int) func(string) bool {
	return func(line string) bool {
		submatches := gobusterStatusPattern.FindStringSubmatch(line)
		if len(submatches) < 2 {
			return false
		}
		statusCode, conversionError := strconv.Atoi(submatches[1])
		if conversionError != nil {
			return false
		}
		return statusCode >= minimum && statusCode <= maximum
	}
}

// nmapPortStateIs matches rows of the port table such as "22/tcp open ssh".
func nmapPortStateIs(states ...string) func(string) bool {
	return func(line string) bool {
		submatches := nmapPortRowPattern.FindStringSubmatch(line)
		if len(submatches) < 3 {
			return false
		}
		for _, state := range states {
			if submatches[2] == state {
				return true
			}
		}
		return false
	}
}

func isJohnCrackedLine(line string) bool {
	for _, excludedPrefix := range []string{"Loaded", "Proceeding", "Using default", "Warning:", "Note:", "Press 'q'"} {
		if strings.HasPrefix(line, excludedPrefix) {
			return false
		}
	}
	if containsAny("words:", "guesses:", "g/s")(line) || johnProgressPattern.MatchString(line) {
		return false
	}
	return johnCrackedPattern.MatchString(line)
}

func containsAny(fragments ...string) func(string) bool {
	return func(line string) bool {
		for _, fragment := range fragments {
			if strings.Contains(line, fragment) {
				return true
			}
		}
		return false
	}
}

func hasPrefix(prefixes ...string) func(string) bool {
	return func(line string) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(line, prefix) {
				return true
			}
		}
		return false
	}
}
