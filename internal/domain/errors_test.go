package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSentinelErrors verifies sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check string
	}{
		{"ErrCacheMiss", ErrCacheMiss, "cache miss"},
		{"ErrCacheExpired", ErrCacheExpired, "cache entry expired"},
		{"ErrInputDirMissing", ErrInputDirMissing, "input directory does not exist"},
		{"ErrNoHandler", ErrNoHandler, "no handler for format"},
		{"ErrUnknownFormat", ErrUnknownFormat, "unknown archive format"},
		{"ErrStateSaveFailed", ErrStateSaveFailed, "state save failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.check)
		})
	}
}

// TestToolError tests ToolError formatting and unwrapping
func TestToolError(t *testing.T) {
	inner := errors.New("exit status 2")
	err := NewToolError("unzip", FormatZip, inner)

	assert.Contains(t, err.Error(), "unzip")
	assert.Contains(t, err.Error(), "zip")
	assert.Contains(t, err.Error(), "exit status 2")
	assert.Equal(t, inner, errors.Unwrap(err))
}

// TestStrategyError tests StrategyError formatting and unwrapping
func TestStrategyError(t *testing.T) {
	inner := errors.New("boom")
	err := NewStrategyError("multi_tool", "/data/a.zip", inner)

	assert.Contains(t, err.Error(), "multi_tool")
	assert.Contains(t, err.Error(), "/data/a.zip")
	assert.True(t, errors.Is(err, inner))
}

// TestValidationError tests ValidationError formatting
func TestValidationError(t *testing.T) {
	err := NewValidationError("tools.timeout", "must be positive")

	assert.Contains(t, err.Error(), "tools.timeout")
	assert.Contains(t, err.Error(), "must be positive")
}

// TestIsLockedOutput tests password marker detection in tool output
func TestIsLockedOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected bool
	}{
		{"unrar password prompt", "Enter password (will not be echoed) for archive.rar:", true},
		{"7z encrypted header", "ERROR: archive.7z\nCannot open encrypted archive. Wrong password?", true},
		{"unzip encrypted entry", "skipping: secret.txt  incorrect password", true},
		{"uppercase marker", "WRONG PASSWORD", true},
		{"clean output", "Everything is Ok", false},
		{"empty output", "", false},
		{"unrelated error", "archive.zip: corrupt central directory", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLockedOutput(tt.output))
		})
	}
}
