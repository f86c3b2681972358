package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Key prefixes for the two probe families
const (
	PrefixTool = "tool"
	PrefixTest = "test"
)

// ToolKey builds the cache key for a tool availability probe
func ToolKey(name string) string {
	return PrefixTool + ":" + name
}

// TestKey builds the cache key for an archive integrity test. The key
// fingerprints path, size, and mtime, so replacing or appending to the
// archive invalidates any cached verdict.
func TestKey(path string, size int64, mtime time.Time) string {
	ser := fmt.Sprintf("%s|%d|%d", path, size, mtime.UnixNano())
	sum := sha256.Sum256([]byte(ser))
	return PrefixTest + ":" + hex.EncodeToString(sum[:])
}

// TestKeyFor stats the path and builds its integrity test key
func TestKeyFor(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return TestKey(path, fi.Size(), fi.ModTime()), nil
}
