package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheExpired indicates the cached entry has expired
	ErrCacheExpired = errors.New("cache entry expired")

	// ErrInputDirMissing indicates the input directory does not exist
	ErrInputDirMissing = errors.New("input directory does not exist")

	// ErrNoHandler indicates no handler is registered for a format
	ErrNoHandler = errors.New("no handler for format")

	// ErrUnknownFormat indicates a file could not be classified as an archive
	ErrUnknownFormat = errors.New("unknown archive format")

	// ErrStateSaveFailed indicates persisting the state file failed
	ErrStateSaveFailed = errors.New("state save failed")
)

// ToolError describes a failed tool invocation. Kept for log context;
// strategies never propagate it, they branch on RunResult instead.
type ToolError struct {
	Tool   string
	Format Format
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed for %s archive: %v", e.Tool, e.Format, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a new ToolError
func NewToolError(tool string, format Format, err error) *ToolError {
	return &ToolError{Tool: tool, Format: format, Err: err}
}

// StrategyError represents an error in strategy chain setup or execution
type StrategyError struct {
	Strategy string
	Path     string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s failed for %s: %v", e.Strategy, e.Path, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// NewStrategyError creates a new StrategyError
func NewStrategyError(strategy, path string, err error) *StrategyError {
	return &StrategyError{Strategy: strategy, Path: path, Err: err}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// lockedMarkers are substrings of tool output that indicate a
// password-protected or encrypted archive.
var lockedMarkers = []string{
	"password",
	"encrypted",
	"wrong password",
	"enter password",
	"cannot open encrypted",
}

// IsLockedOutput reports whether tool output indicates an archive that
// needs a password. Such archives classify as LOCKED, not FAILED.
func IsLockedOutput(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range lockedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
