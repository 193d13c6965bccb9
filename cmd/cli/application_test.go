package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/redboar/internal/resolver"
	"github.com/temirov/redboar/internal/utils"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: error\n  color: always\nrunner:\n  grace_period: 3s\ntools:\n  - name: nmap\n    display_name: Network Mapper\n    candidates:\n      - /nonexistent/redboar/nmap\n    package: nmap\n"
	testKillWaitEnvironmentConstant   = "REDBOAR_RUNNER_KILL_WAIT"
	testToolsCommandNameConstant      = "tools"
)

type applicationFixture struct {
	application  *Application
	outputBuffer *bytes.Buffer
	logBuffer    *bytes.Buffer
}

func newApplicationFixture(testInstance *testing.T) applicationFixture {
	testInstance.Helper()
	testInstance.Setenv("HOME", testInstance.TempDir())

	originalWorkingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	require.NoError(testInstance, os.Chdir(testInstance.TempDir()))
	testInstance.Cleanup(func() {
		require.NoError(testInstance, os.Chdir(originalWorkingDirectory))
	})

	fixture := applicationFixture{
		application:  NewApplication(),
		outputBuffer: &bytes.Buffer{},
		logBuffer:    &bytes.Buffer{},
	}
	fixture.application.loggerFactory = utils.NewLoggerFactoryWithWriter(fixture.logBuffer)
	fixture.application.rootCommand.SetOut(fixture.outputBuffer)
	fixture.application.rootCommand.SetErr(fixture.logBuffer)
	return fixture
}

func writeConfigurationFile(testInstance *testing.T, content string) string {
	testInstance.Helper()
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(content), 0o600))
	return configurationPath
}

// installFakeApt replaces the search path with a directory holding an apt executable.
func installFakeApt(testInstance *testing.T) {
	testInstance.Helper()
	binaryDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(binaryDirectory, "apt"), []byte("#!/bin/sh\nexit 0\n"), 0o700))
	testInstance.Setenv("PATH", binaryDirectory)
}

func TestApplicationEmbeddedDefaultsProvideToolTable(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance)

	require.NoError(testInstance, fixture.application.ExecuteWithArguments([]string{testToolsCommandNameConstant}))

	configuration := fixture.application.configuration
	require.True(testInstance, fixture.application.configurationMetadata.EmbeddedApplied)
	require.Empty(testInstance, fixture.application.configurationMetadata.ConfigFileUsed)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
	require.Equal(testInstance, "auto", configuration.Common.Color)
	require.Equal(testInstance, time.Second, configuration.Runner.GracePeriod)
	require.Equal(testInstance, time.Second, configuration.Runner.KillWait)
	require.Equal(testInstance, 50*time.Millisecond, configuration.Runner.PollInterval)
	require.Equal(testInstance, 256, configuration.Runner.EventBuffer)
	require.Equal(testInstance, resolver.DefaultToolSpecs(), configuration.Tools)
	require.Contains(testInstance, fixture.outputBuffer.String(), "TOOL")
}

func TestApplicationConfigurationPrecedence(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance)
	configurationPath := writeConfigurationFile(testInstance, testConfigurationContentConstant)
	testInstance.Setenv(testKillWaitEnvironmentConstant, "5s")
	installFakeApt(testInstance)

	executionError := fixture.application.ExecuteWithArguments([]string{
		testToolsCommandNameConstant,
		"--config", configurationPath,
		"--log-level", "debug",
		"--color", "never",
	})
	require.NoError(testInstance, executionError)

	configuration := fixture.application.configuration
	require.Equal(testInstance, configurationPath, fixture.application.configurationMetadata.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
	require.Equal(testInstance, "never", configuration.Common.Color)
	require.Equal(testInstance, 3*time.Second, configuration.Runner.GracePeriod)
	require.Equal(testInstance, 5*time.Second, configuration.Runner.KillWait)
	require.Len(testInstance, configuration.Tools, 1)
	require.Equal(testInstance, "Network Mapper", configuration.Tools[0].DisplayName)

	output := fixture.outputBuffer.String()
	require.Contains(testInstance, output, "Configuration: "+configurationPath)
	require.Regexp(testInstance, `(?m)^nmap\s+Network Mapper\s+missing\s+On Debian/Ubuntu, try: sudo apt update && sudo apt install -y nmap$`, output)
	require.Contains(testInstance, fixture.logBuffer.String(), "configuration initialized")
}

func TestApplicationRejectsInvalidSettings(testInstance *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		expectedSubstr string
	}{
		{
			name:           "unsupported_log_level",
			arguments:      []string{testToolsCommandNameConstant, "--log-level", "verbose"},
			expectedSubstr: "unsupported log level",
		},
		{
			name:           "unsupported_log_format",
			arguments:      []string{testToolsCommandNameConstant, "--log-format", "xml"},
			expectedSubstr: "unsupported log format",
		},
		{
			name:           "unsupported_color_flag",
			arguments:      []string{testToolsCommandNameConstant, "--color", "sometimes"},
			expectedSubstr: "invalid value",
		},
		{
			name:           "missing_configuration_file",
			arguments:      []string{testToolsCommandNameConstant, "--config", "/nonexistent/redboar/config.yaml"},
			expectedSubstr: "unable to load configuration",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			fixture := newApplicationFixture(subTest)
			executionError := fixture.application.ExecuteWithArguments(testCase.arguments)
			require.Error(subTest, executionError)
			require.Contains(subTest, executionError.Error(), testCase.expectedSubstr)
		})
	}
}

func TestApplicationRegistersScanCommands(testInstance *testing.T) {
	application := NewApplication()

	registeredNames := make([]string, 0)
	for _, subcommand := range application.rootCommand.Commands() {
		registeredNames = append(registeredNames, subcommand.Name())
	}
	require.Subset(testInstance, registeredNames, []string{"tools", "preview", "run"})
	require.NotNil(testInstance, application.rootCommand.PersistentFlags().Lookup(colorFlagNameConstant))
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstContent, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(testInstance, configurationTypeConstant, configurationType)
	require.NotEmpty(testInstance, firstContent)

	firstContent[0] = '#'
	secondContent, _ := EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstContent[0], secondContent[0])
}
