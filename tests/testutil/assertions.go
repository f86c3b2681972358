package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertFileExists asserts a file exists at the given path
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	assert.True(t, fileExists(path), "File should exist at %s", path)
}

// AssertFileNotExists asserts a file does not exist at the given path
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	assert.False(t, fileExists(path), "File should not exist at %s", path)
}

// AssertFileContains asserts a file contains expected content
func AssertFileContains(t *testing.T, path, expectedContent string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), expectedContent)
}

// AssertFileEquals asserts a file equals expected content
func AssertFileEquals(t *testing.T, path, expectedContent string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expectedContent, string(content))
}

// AssertDirExists asserts a directory exists
func AssertDirExists(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "Path should be a directory: %s", path)
}

// AssertDirNotExists asserts no directory exists at the given path
func AssertDirNotExists(t *testing.T, path string) {
	t.Helper()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Path should not exist: %s", path)
}

// AssertFilesInDir asserts expected number of files exist in directory
func AssertFilesInDir(t *testing.T, dirPath string, expectedCount int, pattern string) {
	t.Helper()

	if pattern == "" {
		pattern = "*"
	}

	files, err := filepath.Glob(filepath.Join(dirPath, pattern))
	require.NoError(t, err)
	assert.Equal(t, expectedCount, len(files), "Expected %d files in %s, got %d", expectedCount, dirPath, len(files))
}

// fileExists is a helper to check if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
