package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.error)
	assert.NotNil(t, logger.warn)
}

func TestLogger_Formatting(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "info")

	logger.Info("User %s logged in with ID %d", "john", 123)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "User john logged in with ID 123", record["msg"])
	assert.Equal(t, "INFO", record["level"])
}

func TestLogger_LevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "warn")

	logger.Info("hidden")
	logger.Debug("hidden too")
	logger.Warn("Warning: %s count is %d", "items", 5)
	logger.Error("Failed to process request %d: %s", 404, "not found")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "items count is 5")
	assert.Contains(t, lines[1], "not found")
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf, "debug").With("service", "post")

	logger.Debug("cache miss for %s", "post:1")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "post", record["service"])
	assert.Equal(t, "cache miss for post:1", record["msg"])
}
