package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to path, creating parent directories as needed
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

// WriteZip creates a real zip archive at path containing the given entries
func WriteZip(t *testing.T, path string, entries map[string]string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return path
}

// WriteDamagedZip creates a zip archive whose end-of-central-directory
// record has been zeroed out, so listing fails while the local file
// headers remain intact
func WriteDamagedZip(t *testing.T, path string, entries map[string]string) string {
	t.Helper()

	WriteZip(t, path, entries)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 22, "zip too small to damage")

	for i := len(data) - 22; i < len(data); i++ {
		data[i] = 0
	}
	require.NoError(t, os.WriteFile(path, data, 0644))

	return path
}
