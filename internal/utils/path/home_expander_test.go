package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/redboar/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/operator"

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "bare tilde", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde slash", input: "~/wordlists/common.txt", expectedPath: filepath.Join(testHomeDirectoryConstant, "wordlists", "common.txt")},
		{name: "other user", input: "~root/x", expectedPath: "~root/x"},
		{name: "absolute", input: "/usr/share/wordlists/rockyou.txt", expectedPath: "/usr/share/wordlists/rockyou.txt"},
		{name: "empty", input: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderLeavesPathsWhenHomeUnknown(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/list.txt", expander.Expand("~/list.txt"))
}

func TestHomeExpanderExpandParameters(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
	parameters := map[string]any{
		"wordlist":  " ~/lists/dirs.txt ",
		"threads":   10,
		"hash_file": "/tmp/hashes",
	}

	expander.ExpandParameters(parameters, "wordlist", "threads", "hash_file", "login_file")

	require.Equal(testInstance, map[string]any{
		"wordlist":  filepath.Join(testHomeDirectoryConstant, "lists", "dirs.txt"),
		"threads":   10,
		"hash_file": "/tmp/hashes",
	}, parameters)
	require.Equal(testInstance, []string{testHomeDirectoryConstant + "/bin/nuclei", "nuclei"}, expander.ExpandAll([]string{"~/bin/nuclei", " nuclei"}))
}
