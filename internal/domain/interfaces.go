package domain

import (
	"context"
	"time"
)

// CommandRunner executes external extraction tools. Implementations must
// never return an error for routine tool failures; those are encoded in
// RunResult.Status so strategies can advance to the next candidate.
type CommandRunner interface {
	// Run executes a command, blocking until it exits or times out
	Run(ctx context.Context, cmd Command) RunResult
	// LookPath reports the resolved path of a tool, or an error when absent
	LookPath(tool string) (string, error)
}

// Cache defines the interface for the probe cache
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
