package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textgraph/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("session_id", "s-1").Debug("graph built")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "graph built", entry["msg"])
	assert.Equal(t, "s-1", entry["session_id"])
}

func TestNewLogger_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
	logger.Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(config.LogConfig{Format: "xml"})
	assert.ErrorContains(t, err, "unsupported log format")
}

func TestPrintf(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	Printf{Logger: logger}.Printf("SLOW SQL >= %s rows=%d", "1s", 3)
	assert.Contains(t, buf.String(), "rows=3")
	assert.Contains(t, buf.String(), "level=warning")

	buf.Reset()
	logger.SetLevel(logrus.ErrorLevel)
	Printf{Logger: logger}.Printf("rows=%d", 4)
	assert.Empty(t, buf.String())
}
