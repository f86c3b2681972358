package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLogger tests logger creation with various options
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		opts     LoggerOptions
		expected zerolog.Level
	}{
		{"debug level", LoggerOptions{Level: "debug"}, zerolog.DebugLevel},
		{"info level", LoggerOptions{Level: "info"}, zerolog.InfoLevel},
		{"warn level", LoggerOptions{Level: "warn"}, zerolog.WarnLevel},
		{"error level", LoggerOptions{Level: "error"}, zerolog.ErrorLevel},
		{"unknown defaults to info", LoggerOptions{Level: "bogus"}, zerolog.InfoLevel},
		{"verbose overrides level", LoggerOptions{Level: "error", Verbose: true}, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.opts)
			require.NotNil(t, logger)
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

// TestLogger_JSONOutput tests structured JSON output
func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "info", Format: "json", Output: &buf})

	logger.Info().Str("archive", "/data/a.zip").Msg("extracted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "extracted", entry["message"])
	assert.Equal(t, "/data/a.zip", entry["archive"])
}

// TestLogger_With tests contextual child loggers
func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "info", Format: "json", Output: &buf})

	tests := []struct {
		name  string
		child *Logger
		field string
		value string
	}{
		{"component", logger.WithComponent("state"), "component", "state"},
		{"archive", logger.WithArchive("/in/x.rar"), "archive", "/in/x.rar"},
		{"strategy", logger.WithStrategy("multipart"), "strategy", "multipart"},
		{"tool", logger.WithTool("7z"), "tool", "7z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.child.Info().Msg("hello")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.value, entry[tt.field])
		})
	}
}
