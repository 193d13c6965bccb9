package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/redboar/internal/adapters"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parametersHeaderMarkerConstant   = "# params.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing header marker %s"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
)

type readmeConfiguration struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
		Color     string `yaml:"color"`
	} `yaml:"common"`
	Runner map[string]any `yaml:"runner"`
	Tools  []struct {
		Name       string   `yaml:"name"`
		Candidates []string `yaml:"candidates"`
	} `yaml:"tools"`
}

type pathOnlyFileChecker struct{}

func (pathOnlyFileChecker) FileExists(path string) bool {
	return strings.HasPrefix(path, "/")
}

func readReadmeSnippet(testInstance *testing.T, headerMarker string) string {
	testInstance.Helper()
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	contentBytes, readError := os.ReadFile(filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant))
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, headerMarker)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant, headerMarker)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	fenceEndRelativeIndex := strings.Index(contentText[headerIndex:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : headerIndex+fenceEndRelativeIndex])
}

func TestReadmeConfigurationParses(testInstance *testing.T) {
	var configuration readmeConfiguration
	require.NoError(testInstance, yaml.Unmarshal([]byte(readReadmeSnippet(testInstance, configHeaderMarkerConstant)), &configuration))

	require.Equal(testInstance, "console", configuration.Common.LogFormat)
	require.Contains(testInstance, configuration.Runner, "grace_period")

	registry := adapters.NewDefaultRegistry(nil)
	require.NotEmpty(testInstance, configuration.Tools)
	for _, tool := range configuration.Tools {
		_, lookupError := registry.Lookup(tool.Name)
		require.NoError(testInstance, lookupError, tool.Name)
		require.NotEmpty(testInstance, tool.Candidates, tool.Name)
	}
}

func TestReadmeParametersBuildCommand(testInstance *testing.T) {
	parameters := adapters.ParameterSet{}
	require.NoError(testInstance, yaml.Unmarshal([]byte(readReadmeSnippet(testInstance, parametersHeaderMarkerConstant)), &parameters))

	arguments, buildError := adapters.NewGobusterAdapter(pathOnlyFileChecker{}).BuildArguments(parameters)
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "dir", arguments[0])
	require.Contains(testInstance, arguments, "http://testphp.vulnweb.com")
}
