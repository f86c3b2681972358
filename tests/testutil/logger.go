package testutil

import (
	"io"
	"testing"

	"github.com/archivekit/extractall-go/internal/utils"
	"github.com/rs/zerolog"
)

// NewTestLogger creates a silent logger tagged with the test name
func NewTestLogger(t *testing.T) *utils.Logger {
	t.Helper()

	zlogger := zerolog.New(io.Discard).With().
		Timestamp().
		Str("test", t.Name()).
		Logger()

	return &utils.Logger{Logger: zlogger}
}

// NewNoOpLogger creates a logger that discards all output
func NewNoOpLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
