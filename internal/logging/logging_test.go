package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{7, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.verbosity))
	}
}

func TestSetupLoggerWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerTo(&buf, 1, "")

	logger := GetLogger("collect")
	logger.Info().Msg("walking")

	out := buf.String()
	assert.Contains(t, out, "walking")
	assert.Contains(t, out, "collect")
}

func TestSetupLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerTo(&buf, 0, "")

	logger := GetLogger("archive")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupLoggerFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "state", "monokit.log")

	var buf bytes.Buffer
	SetupLoggerTo(&buf, 1, logPath)
	logger := GetLogger("scaffold")
	logger.Info().Msg("to file")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"scaffold"`)
}

func TestSetupLoggerClosesPreviousFile(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	SetupLoggerTo(&buf, 1, filepath.Join(dir, "first.log"))
	first := logFile
	require.NotNil(t, first)

	SetupLoggerTo(&buf, 1, filepath.Join(dir, "second.log"))
	require.NotNil(t, logFile)
	assert.NotSame(t, first, logFile)
	_, err := first.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)

	second := logFile
	require.NoError(t, Close())
	assert.Nil(t, logFile)
	_, err = second.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)

	require.NoError(t, Close())
}
