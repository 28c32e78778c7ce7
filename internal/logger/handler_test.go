package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "warn")

	log.Info("hidden")
	log.Warn("shown", "pid", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(42), entry["pid"])
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "pretty", "debug").With("component", "gateway").WithGroup("cmd")

	log.Debug("command failed", "name", "ps", slog.Group("exit", "code", 1))

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "command failed")
	assert.Contains(t, out, "component"+reset+"=gateway")
	assert.Contains(t, out, "cmd.name"+reset+"=ps")
	assert.Contains(t, out, "cmd.exit.code"+reset+"=1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
