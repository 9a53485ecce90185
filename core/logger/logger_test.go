package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetWriterForAll(&buf, false)
	t.Cleanup(func() {
		globalLogger = newColoredLogger()
	})
	return &buf
}

func TestDebugIsHiddenUnlessVerbose(t *testing.T) {
	buf := captureLogs(t)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "DEBUG shown 2")
}

func TestPlainSinkHasNoColor(t *testing.T) {
	buf := captureLogs(t)

	Warn("careful")
	assert.Contains(t, buf.String(), "WARN  careful")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestFatalCallsExit(t *testing.T) {
	captureLogs(t)
	code := -1
	globalLogger.exitFunc = func(c int) { code = c }

	Fatal("boom")
	assert.Equal(t, 1, code)
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
