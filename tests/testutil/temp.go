package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempDir creates a temporary directory for testing
func TempDir(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "extractall-test-*")
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	return tmpDir
}

// TempSubDir creates a temporary subdirectory within a base directory
func TempSubDir(t *testing.T, baseDir string) string {
	t.Helper()

	subDir, err := os.MkdirTemp(baseDir, "sub-*")
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(subDir)
	})

	return subDir
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(t *testing.T, path string) string {
	t.Helper()

	err := os.MkdirAll(path, 0755)
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(path)
	})

	return path
}

// TempInputDir creates a temporary directory populated with named files
func TempInputDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := TempDir(t)
	for name, content := range files {
		WriteFile(t, filepath.Join(dir, name), content)
	}

	return dir
}
