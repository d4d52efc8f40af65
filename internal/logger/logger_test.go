package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	flush := Init(Options{Development: false, Output: &buf})
	defer flush()

	slog.Debug("hidden")
	slog.Info("document saved", "projects", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "document saved", entry["msg"])
	assert.EqualValues(t, 3, entry["projects"])
}

func TestInitDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	flush := Init(Options{Development: true, Output: &buf})
	defer flush()

	slog.Debug("upload streamed", "bytes", 12)

	assert.Contains(t, buf.String(), "upload streamed")
	assert.Contains(t, buf.String(), "bytes=12")
}
