package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"marketplace/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("kept", "component", "tracking_registry")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "tracking_registry", record["component"])
}
