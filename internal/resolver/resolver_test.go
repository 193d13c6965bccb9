package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/redboar/internal/resolver"
)

const (
	testBinaryToolNameConstant     = "gobuster"
	testScriptToolNameConstant     = "sqlmap"
	testMissingToolNameConstant    = "nmap"
	testBinaryPathConstant         = "/usr/bin/gobuster"
	testSnapBinaryPathConstant     = "/snap/bin/gobuster"
	testScriptPathConstant         = "/usr/share/sqlmap/sqlmap.py"
	testScriptFallbackPathConstant = "/usr/local/bin/sqlmap"
	testPythonInterpreterConstant  = "/usr/bin/python3"
	testPythonLegacyConstant       = "/usr/bin/python"
	testUnknownToolNameConstant    = "masscan"
	testUnknownToolPathConstant    = "/usr/local/bin/masscan"
	testCandidateMissingMessage    = "executable file not found"
)

type fakeFileSystem struct {
	executables map[string]string
	lookups     []string
}

func (fileSystem *fakeFileSystem) lookPath(file string) (string, error) {
	fileSystem.lookups = append(fileSystem.lookups, file)
	if resolvedPath, exists := fileSystem.executables[file]; exists {
		return resolvedPath, nil
	}
	return "", errors.New(testCandidateMissingMessage)
}

func TestResolverResolveScenarios(testInstance *testing.T) {
	testCases := []struct {
		name             string
		toolName         string
		executables      map[string]string
		expectedFound    bool
		expectedSegments []string
	}{
		{
			name:     "first_candidate_wins",
			toolName: testBinaryToolNameConstant,
			executables: map[string]string{
				testBinaryPathConstant:     testBinaryPathConstant,
				testSnapBinaryPathConstant: testSnapBinaryPathConstant,
			},
			expectedFound:    true,
			expectedSegments: []string{testBinaryPathConstant},
		},
		{
			name:     "bare_name_resolved_through_search_path",
			toolName: testBinaryToolNameConstant,
			executables: map[string]string{
				"gobuster": "/opt/tools/gobuster",
			},
			expectedFound:    true,
			expectedSegments: []string{"/opt/tools/gobuster"},
		},
		{
			name:     "script_requires_interpreter",
			toolName: testScriptToolNameConstant,
			executables: map[string]string{
				testScriptPathConstant: testScriptPathConstant,
				"python3":              testPythonInterpreterConstant,
			},
			expectedFound:    true,
			expectedSegments: []string{testPythonInterpreterConstant, testScriptPathConstant},
		},
		{
			name:     "second_interpreter_candidate_used",
			toolName: testScriptToolNameConstant,
			executables: map[string]string{
				testScriptPathConstant: testScriptPathConstant,
				"python":               testPythonLegacyConstant,
			},
			expectedFound:    true,
			expectedSegments: []string{testPythonLegacyConstant, testScriptPathConstant},
		},
		{
			name:     "script_without_interpreter_falls_through",
			toolName: testScriptToolNameConstant,
			executables: map[string]string{
				testScriptPathConstant: testScriptPathConstant,
				"sqlmap":               testScriptFallbackPathConstant,
			},
			expectedFound:    true,
			expectedSegments: []string{testScriptFallbackPathConstant},
		},
		{
			name:          "all_candidates_missing",
			toolName:      testMissingToolNameConstant,
			executables:   map[string]string{},
			expectedFound: false,
		},
		{
			name:     "unknown_tool_uses_own_name",
			toolName: testUnknownToolNameConstant,
			executables: map[string]string{
				testUnknownToolNameConstant: testUnknownToolPathConstant,
			},
			expectedFound:    true,
			expectedSegments: []string{testUnknownToolPathConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := &fakeFileSystem{executables: testCase.executables}
			toolResolver := resolver.NewResolver(resolver.DefaultToolSpecs(), resolver.WithLookPath(fileSystem.lookPath))

			executable, found := toolResolver.Resolve(testCase.toolName)
			require.Equal(testInstance, testCase.expectedFound, found)
			if !testCase.expectedFound {
				require.True(testInstance, executable.IsEmpty())
				return
			}
			require.Equal(testInstance, testCase.expectedSegments, executable.Segments())
		})
	}
}

func TestResolverCachesNotFoundUntilRefresh(testInstance *testing.T) {
	fileSystem := &fakeFileSystem{executables: map[string]string{}}
	toolResolver := resolver.NewResolver(resolver.DefaultToolSpecs(), resolver.WithLookPath(fileSystem.lookPath))

	_, firstFound := toolResolver.Resolve(testMissingToolNameConstant)
	require.False(testInstance, firstFound)
	lookupsAfterFirstResolve := len(fileSystem.lookups)
	require.NotZero(testInstance, lookupsAfterFirstResolve)

	_, secondFound := toolResolver.Resolve(testMissingToolNameConstant)
	require.False(testInstance, secondFound)
	require.Len(testInstance, fileSystem.lookups, lookupsAfterFirstResolve)

	_, foundCached, cached := toolResolver.Lookup(testMissingToolNameConstant)
	require.True(testInstance, cached)
	require.False(testInstance, foundCached)

	fileSystem.executables["nmap"] = "/usr/local/bin/nmap"

	_, stillCachedFound := toolResolver.Resolve(testMissingToolNameConstant)
	require.False(testInstance, stillCachedFound)

	refreshedExecutable, refreshedFound := toolResolver.Refresh(testMissingToolNameConstant)
	require.True(testInstance, refreshedFound)
	require.Equal(testInstance, []string{"/usr/local/bin/nmap"}, refreshedExecutable.Segments())
}

func TestResolverLookupBeforeResolve(testInstance *testing.T) {
	toolResolver := resolver.NewResolver(resolver.DefaultToolSpecs(), resolver.WithLookPath((&fakeFileSystem{}).lookPath))

	_, _, cached := toolResolver.Lookup(testBinaryToolNameConstant)
	require.False(testInstance, cached)
}

func TestResolverSpecs(testInstance *testing.T) {
	toolResolver := resolver.NewResolver(resolver.DefaultToolSpecs())

	specifications := toolResolver.Specs()
	require.Len(testInstance, specifications, len(resolver.DefaultToolSpecs()))
	for specificationIndex := 1; specificationIndex < len(specifications); specificationIndex++ {
		require.Less(testInstance, specifications[specificationIndex-1].Name, specifications[specificationIndex].Name)
	}

	johnSpecification, known := toolResolver.Spec("JOHN")
	require.True(testInstance, known)
	require.Equal(testInstance, "John the Ripper", johnSpecification.DisplayName)

	unknownSpecification, unknownKnown := toolResolver.Spec("wpscan")
	require.False(testInstance, unknownKnown)
	require.Equal(testInstance, []string{"wpscan"}, unknownSpecification.Candidates)
	require.Equal(testInstance, "Wpscan", unknownSpecification.DisplayName)
}

func TestResolvedExecutableSegmentsAreCopies(testInstance *testing.T) {
	executable := resolver.NewResolvedExecutable(testPythonInterpreterConstant, testScriptPathConstant)
	segments := executable.Segments()
	segments[0] = "mutated"
	require.Equal(testInstance, testPythonInterpreterConstant, executable.Segments()[0])
	require.Equal(testInstance, testPythonInterpreterConstant+" "+testScriptPathConstant, executable.String())
}

func TestInstallHint(testInstance *testing.T) {
	guidedSpecification := resolver.ToolSpec{Name: "nikto", PackageName: "nikto", InstallGuidance: "git clone https://github.com/sullo/nikto.git"}
	testCases := []struct {
		name          string
		specification resolver.ToolSpec
		aptAvailable  bool
		expectedHint  string
	}{
		{
			name:          "apt_package",
			specification: resolver.ToolSpec{Name: "searchsploit", PackageName: "exploitdb"},
			aptAvailable:  true,
			expectedHint:  "On Debian/Ubuntu, try: sudo apt update && sudo apt install -y exploitdb",
		},
		{
			name:          "apt_preferred_over_guidance",
			specification: guidedSpecification,
			aptAvailable:  true,
			expectedHint:  "On Debian/Ubuntu, try: sudo apt update && sudo apt install -y nikto",
		},
		{
			name:          "guidance_without_apt",
			specification: guidedSpecification,
			expectedHint:  "git clone https://github.com/sullo/nikto.git",
		},
		{
			name:          "generic_without_apt",
			specification: resolver.ToolSpec{Name: "hydra", PackageName: "hydra"},
			expectedHint:  "Install it using your system's package manager or download it from its official website, then make sure it is on PATH or listed in the tools configuration.",
		},
		{
			name:          "generic_without_package",
			specification: resolver.ToolSpec{Name: "wpscan"},
			aptAvailable:  true,
			expectedHint:  "Install it using your system's package manager or download it from its official website, then make sure it is on PATH or listed in the tools configuration.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedHint, resolver.InstallHint(testCase.specification, testCase.aptAvailable))
		})
	}
}

func TestResolverInstallHintProbesForApt(testInstance *testing.T) {
	specifications := resolver.DefaultToolSpecs()

	withoutApt := &fakeFileSystem{executables: map[string]string{}}
	hint := resolver.NewResolver(specifications, resolver.WithLookPath(withoutApt.lookPath)).InstallHint(testScriptToolNameConstant)
	require.Contains(testInstance, hint, "git clone --depth 1 https://github.com/sqlmapproject/sqlmap.git")
	require.Contains(testInstance, withoutApt.lookups, "apt")

	withApt := &fakeFileSystem{executables: map[string]string{"apt": "/usr/bin/apt"}}
	hint = resolver.NewResolver(specifications, resolver.WithLookPath(withApt.lookPath)).InstallHint(testScriptToolNameConstant)
	require.Equal(testInstance, "On Debian/Ubuntu, try: sudo apt update && sudo apt install -y sqlmap", hint)
}
