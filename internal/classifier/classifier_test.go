package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/redboar/internal/classifier"
)

func TestClassify(testInstance *testing.T) {
	testCases := []struct {
		name             string
		toolName         string
		line             string
		expectedCategory classifier.Category
	}{
		{name: "gobuster_ok", toolName: "gobuster", line: "/admin                (Status: 200) [Size: 1234]", expectedCategory: classifier.CategoryStatusSuccess},
		{name: "gobuster_redirect", toolName: "Gobuster", line: "/images (Status: 301) [--> /images/]", expectedCategory: classifier.CategoryStatusRedirect},
		{name: "gobuster_auth", toolName: "gobuster", line: "/private (Status: 401)", expectedCategory: classifier.CategoryStatusAuth},
		{name: "gobuster_forbidden", toolName: "gobuster", line: "/.htaccess (Status: 403)", expectedCategory: classifier.CategoryStatusForbidden},
		{name: "gobuster_server_error", toolName: "gobuster", line: "/cgi-bin (Status: 502)", expectedCategory: classifier.CategoryStatusServerError},
		{name: "gobuster_unclassified_status", toolName: "gobuster", line: "/teapot (Status: 418)", expectedCategory: classifier.CategoryNeutral},
		{name: "gobuster_found_subdomain", toolName: "gobuster", line: "Found: mail.example.com", expectedCategory: classifier.CategoryStatusSuccess},
		{name: "nmap_host_up", toolName: "nmap", line: "Host is up (0.0021s latency).", expectedCategory: classifier.CategoryHostUp},
		{name: "nmap_open", toolName: "Nmap", line: "22/tcp   open  ssh", expectedCategory: classifier.CategoryPortOpen},
		{name: "nmap_closed_row", toolName: "nmap", line: "23/tcp   closed telnet", expectedCategory: classifier.CategoryPortClosed},
		{name: "nmap_udp_open_filtered_row", toolName: "nmap", line: "53/udp   open|filtered domain", expectedCategory: classifier.CategoryPortFiltered},
		{name: "nmap_open_port_state", toolName: "nmap", line: "Discovered open port 80/tcp on 10.0.0.1", expectedCategory: classifier.CategoryNeutral},
		{name: "nmap_open_grepable", toolName: "nmap", line: "Host: 10.0.0.1 () Ports: 22/open/tcp", expectedCategory: classifier.CategoryPortOpen},
		{name: "nmap_grepable_with_service_slashes", toolName: "nmap", line: "Ports: 22/open/tcp//ssh///", expectedCategory: classifier.CategoryNeutral},
		{name: "nmap_closed", toolName: "nmap", line: "Ports: 23/closed/tcp", expectedCategory: classifier.CategoryPortClosed},
		{name: "nmap_filtered", toolName: "nmap", line: "Ports: 445/filtered/tcp", expectedCategory: classifier.CategoryPortFiltered},
		{name: "nmap_service_info", toolName: "nmap", line: "Service Info: OS: Linux; CPE: cpe:/o:linux:linux_kernel", expectedCategory: classifier.CategoryServiceDetail},
		{name: "sqlmap_vulnerable", toolName: "sqlmap", line: "parameter 'id' is vulnerable. Do you want to keep testing the others?", expectedCategory: classifier.CategoryFlaggedFinding},
		{name: "sqlmap_not_vulnerable", toolName: "SQLMap", line: "parameter 'q' does not seem to be injectable", expectedCategory: classifier.CategoryNeutral},
		{name: "sqlmap_info_tag", toolName: "sqlmap", line: "[12:00:01] [INFO] testing connection to the target URL", expectedCategory: classifier.CategoryInfo},
		{name: "sqlmap_dbms", toolName: "sqlmap", line: "back-end DBMS: MySQL >= 5.0", expectedCategory: classifier.CategoryDatabaseDetail},
		{name: "sqlmap_table_row", toolName: "sqlmap", line: "| 1  | admin | 5f4dcc3b5aa765d61d8327deb882cf99 |", expectedCategory: classifier.CategoryExtractedData},
		{name: "sqlmap_database_name", toolName: "sqlmap", line: "[*] information_schema", expectedCategory: classifier.CategoryInfo},
		{name: "nikto_finding", toolName: "nikto", line: "+ OSVDB-3092: /admin/: This might be interesting.", expectedCategory: classifier.CategoryFlaggedFinding},
		{name: "nikto_banner", toolName: "Nikto", line: "+ Server: Apache/2.4.41 (Ubuntu)", expectedCategory: classifier.CategoryServerBanner},
		{name: "nikto_info", toolName: "nikto", line: "+ Target IP: 10.0.0.1", expectedCategory: classifier.CategoryInfo},
		{name: "john_cracked", toolName: "John the Ripper", line: "password123      (admin)", expectedCategory: classifier.CategoryCrackedCredential},
		{name: "john_progress", toolName: "john", line: "0g 0:00:00:05 3/3 0g/s 1234p/s 1234c/s 1234C/s", expectedCategory: classifier.CategoryProgressStatus},
		{name: "john_loaded", toolName: "john", line: "Loaded 1 password hash (Raw-MD5 [MD5 256/256 AVX2 8x3])", expectedCategory: classifier.CategoryProgressStatus},
		{name: "john_nothing_left", toolName: "john", line: "No password hashes left to crack (see FAQ)", expectedCategory: classifier.CategoryInfo},
		{name: "hydra_credential", toolName: "hydra", line: "[22][ssh] host: 10.0.0.1   login: root   password: toor", expectedCategory: classifier.CategoryCrackedCredential},
		{name: "hydra_status", toolName: "hydra", line: "[STATUS] 64.00 tries/min, 64 tries in 00:01h", expectedCategory: classifier.CategoryProgressStatus},
		{name: "nuclei_finding", toolName: "nuclei", line: "[CVE-2021-41773] [http] [critical] http://example.com/cgi-bin/", expectedCategory: classifier.CategoryFlaggedFinding},
		{name: "nuclei_info", toolName: "nuclei", line: "[INF] Templates loaded for current scan: 4123", expectedCategory: classifier.CategoryInfo},
		{name: "generic_error", toolName: "searchsploit", line: "ERROR: could not open database", expectedCategory: classifier.CategoryError},
		{name: "generic_failed", toolName: "gobuster", line: "Failed to connect to host", expectedCategory: classifier.CategoryError},
		{name: "generic_failed_login_is_not_error", toolName: "unknown", line: "Failed login for admin", expectedCategory: classifier.CategoryNeutral},
		{name: "generic_banner_line", toolName: "nmap", line: "--- Nmap process finished with exit code 0 ---", expectedCategory: classifier.CategoryInfo},
		{name: "tool_rule_overrides_generic", toolName: "gobuster", line: "[+] Found: /login (Status: 200)", expectedCategory: classifier.CategoryStatusSuccess},
		{name: "blank_line", toolName: "nmap", line: "   ", expectedCategory: classifier.CategoryNeutral},
		{name: "plain_line", toolName: "nmap", line: "Starting Nmap 7.94", expectedCategory: classifier.CategoryNeutral},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedCategory, classifier.Classify(testCase.toolName, testCase.line))
		})
	}
}

func TestAllCategoriesAreDistinct(testInstance *testing.T) {
	seen := map[classifier.Category]bool{}
	for _, category := range classifier.AllCategories() {
		require.False(testInstance, seen[category], "duplicate category %s", category)
		seen[category] = true
	}
	require.Len(testInstance, seen, 19)
}
