package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/redboar/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriters(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriterSize(&destination, 4096)
	flushingWriter := utils.NewFlushingWriter(bufferedWriter)

	bytesWritten, writeError := flushingWriter.Write([]byte("22/tcp open ssh\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len("22/tcp open ssh\n"), bytesWritten)
	require.Equal(testInstance, "22/tcp open ssh\n", destination.String())

	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
