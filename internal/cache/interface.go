package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/archivekit/extractall-go/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Default TTLs. Tool availability changes rarely; integrity verdicts
// are invalidated through the fingerprint key rather than expiry, so
// both can live long.
const (
	DefaultToolTTL = 1 * time.Hour
	DefaultTestTTL = 24 * time.Hour
)

// ToolProbe records whether an external tool resolved on PATH
type ToolProbe struct {
	Name      string    `json:"name"`
	Path      string    `json:"path,omitempty"`
	Available bool      `json:"available"`
	CheckedAt time.Time `json:"checked_at"`
}

// TestVerdict records the result of an archive integrity test
type TestVerdict struct {
	Path     string    `json:"path"`
	Passed   bool      `json:"passed"`
	TestedAt time.Time `json:"tested_at"`
}

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	// TTL applies to entries stored without an explicit TTL
	TTL    time.Duration
	Logger bool
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		TTL:       DefaultToolTTL,
		Logger:    false,
	}
}

// GetToolProbe decodes a cached tool availability probe
func GetToolProbe(ctx context.Context, c domain.Cache, name string) (ToolProbe, error) {
	var probe ToolProbe

	data, err := c.Get(ctx, ToolKey(name))
	if err != nil {
		return probe, err
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return probe, err
	}
	return probe, nil
}

// PutToolProbe caches a tool availability probe
func PutToolProbe(ctx context.Context, c domain.Cache, probe ToolProbe, ttl time.Duration) error {
	data, err := json.Marshal(probe)
	if err != nil {
		return err
	}
	return c.Set(ctx, ToolKey(probe.Name), data, ttl)
}

// GetTestVerdict decodes a cached integrity verdict for the given
// fingerprint key
func GetTestVerdict(ctx context.Context, c domain.Cache, key string) (TestVerdict, error) {
	var verdict TestVerdict

	data, err := c.Get(ctx, key)
	if err != nil {
		return verdict, err
	}
	if err := json.Unmarshal(data, &verdict); err != nil {
		return verdict, err
	}
	return verdict, nil
}

// PutTestVerdict caches an integrity verdict under the given
// fingerprint key
func PutTestVerdict(ctx context.Context, c domain.Cache, key string, verdict TestVerdict, ttl time.Duration) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
