package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philcali.me/foodrecipes/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, "info", "json")
		log.Debug("hidden")
		log.Info("search issued", "query", "pasta")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "search issued", line["msg"])
		assert.Equal(t, "pasta", line["query"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, "debug", "text")
		log.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
	})
}
