package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("debug", "json", &buf)
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

		logger.WithField("task", "pitch_concept_task").Info("started")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "started", entry["msg"])
		assert.Equal(t, "pitch_concept_task", entry["task"])
	})

	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("info", "TEXT", &buf)
		require.NoError(t, err)
		logger.Debug("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New("loud", "text", nil)
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := New("info", "xml", nil)
		assert.Error(t, err)
	})
}
