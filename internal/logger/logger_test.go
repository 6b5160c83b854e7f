package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false // disable colors for easier testing
	mu.Unlock()

	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		output := buf.String()
		assert.Contains(t, output, "debug message")
		assert.Contains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("InfoLevelFiltersDebug", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")

		Debug("debug message")
		Info("info message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.Contains(t, output, "info message")
	})

	t.Run("ErrorLevelShowsOnlyErrors", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("ERROR")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.NotContains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("InvalidLevelIgnored", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetLevel("BOGUS")

		Info("still info")
		assert.Contains(t, buf.String(), "still info")
	})
}

func TestStructuredFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("text")

	Info("LOOKUP successful", KeyName, "a.txt", KeyInode, uint64(2), KeySize, 5)

	output := buf.String()
	assert.Contains(t, output, "LOOKUP successful")
	assert.Contains(t, output, "name=a.txt")
	assert.Contains(t, output, "inode=2")
	assert.Contains(t, output, "size=5")
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("json")
	defer SetFormat("text")

	Info("READ successful", KeyInode, uint64(3), KeyBytesRead, 5)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "READ successful", record["msg"])
	assert.EqualValues(t, 3, record["inode"])
	assert.EqualValues(t, 5, record["bytes_read"])
}

func TestContextAwareLogging(t *testing.T) {
	t.Run("InjectsLogContextFields", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetFormat("text")

		lc := NewLogContext("GETATTR", 7).WithCaller(1234, 1000, 1000)
		ctx := WithContext(context.Background(), lc)

		InfoCtx(ctx, "GETATTR successful")

		output := buf.String()
		assert.Contains(t, output, "op=GETATTR")
		assert.Contains(t, output, "inode=7")
		assert.Contains(t, output, "caller_pid=1234")
		assert.Contains(t, output, "caller_uid=1000")
	})

	t.Run("NoLogContextIsFine", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		InfoCtx(context.Background(), "bare message")

		assert.Contains(t, buf.String(), "bare message")
	})
}

func TestLogContext(t *testing.T) {
	t.Run("CloneIsIndependent", func(t *testing.T) {
		lc := NewLogContext("READ", 5)
		clone := lc.WithCaller(1, 2, 3)

		assert.Zero(t, lc.CallerPID, "original must be untouched")
		assert.EqualValues(t, 1, clone.CallerPID)
		assert.Equal(t, lc.Op, clone.Op)
	})

	t.Run("NilSafe", func(t *testing.T) {
		var lc *LogContext
		assert.Nil(t, lc.Clone())
		assert.Zero(t, lc.DurationMs())
		assert.Nil(t, FromContext(context.Background()))
	})
}
