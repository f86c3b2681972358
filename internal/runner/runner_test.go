package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivekit/extractall-go/internal/domain"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	return New(Options{})
}

// TestRunner_Run_Success tests a command that exits cleanly
func TestRunner_Run_Success(t *testing.T) {
	r := newTestRunner(t)

	result := r.Run(context.Background(), domain.Command{
		Argv: []string{"sh", "-c", "echo hello"},
	})

	assert.Equal(t, domain.RunOK, result.Status)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "hello")
	assert.True(t, result.OK())
}

// TestRunner_Run_ExitError tests non-zero exit classification
func TestRunner_Run_ExitError(t *testing.T) {
	r := newTestRunner(t)

	result := r.Run(context.Background(), domain.Command{
		Argv: []string{"sh", "-c", "echo boom >&2; exit 3"},
	})

	assert.Equal(t, domain.RunExitError, result.Status)
	assert.Equal(t, 3, result.ExitCode)
	// Stderr is captured alongside stdout
	assert.Contains(t, result.Output, "boom")
	assert.False(t, result.OK())
}

// TestRunner_Run_NotFound tests missing binary classification
func TestRunner_Run_NotFound(t *testing.T) {
	r := newTestRunner(t)

	result := r.Run(context.Background(), domain.Command{
		Argv: []string{"definitely-not-a-real-tool-xyz"},
	})

	assert.Equal(t, domain.RunNotFound, result.Status)
	assert.Equal(t, -1, result.ExitCode)
}

// TestRunner_Run_EmptyArgv tests the empty command edge case
func TestRunner_Run_EmptyArgv(t *testing.T) {
	r := newTestRunner(t)

	result := r.Run(context.Background(), domain.Command{})

	assert.Equal(t, domain.RunNotFound, result.Status)
}

// TestRunner_Run_Timeout tests that slow commands are killed
func TestRunner_Run_Timeout(t *testing.T) {
	r := newTestRunner(t)

	start := time.Now()
	result := r.Run(context.Background(), domain.Command{
		Argv:    []string{"sleep", "5"},
		Timeout: 100 * time.Millisecond,
	})

	assert.Equal(t, domain.RunTimedOut, result.Status)
	assert.Less(t, time.Since(start), 3*time.Second)
}

// TestRunner_Run_ContextCancellation tests that a canceled context
// stops the command
func TestRunner_Run_ContextCancellation(t *testing.T) {
	r := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	result := r.Run(ctx, domain.Command{
		Argv: []string{"sleep", "5"},
	})

	assert.Equal(t, domain.RunTimedOut, result.Status)
}

// TestRunner_Run_WorkingDirectory tests that Dir is honored
func TestRunner_Run_WorkingDirectory(t *testing.T) {
	r := newTestRunner(t)

	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "marker.txt"), []byte("x"), 0644))

	result := r.Run(context.Background(), domain.Command{
		Argv: []string{"ls"},
		Dir:  tmpDir,
	})

	assert.Equal(t, domain.RunOK, result.Status)
	assert.Contains(t, result.Output, "marker.txt")
}

// TestRunner_Run_OutputCap tests that captured output is bounded
func TestRunner_Run_OutputCap(t *testing.T) {
	r := New(Options{MaxOutputBytes: 16})

	result := r.Run(context.Background(), domain.Command{
		Argv: []string{"sh", "-c", "head -c 4096 /dev/zero | tr '\\0' 'a'"},
	})

	assert.Equal(t, domain.RunOK, result.Status)
	assert.LessOrEqual(t, len(result.Output), 16)
}

// TestRunner_LookPath tests tool availability probing
func TestRunner_LookPath(t *testing.T) {
	r := newTestRunner(t)

	path, err := r.LookPath("sh")
	assert.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = r.LookPath("definitely-not-a-real-tool-xyz")
	assert.Error(t, err)
}

// TestDecodeOutput tests output transcoding
func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		charset string
		want    string
	}{
		{
			name:    "plain utf-8 passthrough",
			raw:     []byte("Everything is Ok"),
			charset: "",
			want:    "Everything is Ok",
		},
		{
			name:    "cp866 transcoding",
			raw:     []byte{0x8F, 0x90, 0x88, 0x82, 0x85, 0x92},
			charset: "cp866",
			want:    "ПРИВЕТ",
		},
		{
			name:    "unknown charset falls back to raw",
			raw:     []byte("hello"),
			charset: "not-a-charset",
			want:    "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeOutput(tt.raw, tt.charset))
		})
	}
}

// TestDecodeOutput_InvalidUTF8 tests that broken byte sequences are
// sanitized rather than propagated
func TestDecodeOutput_InvalidUTF8(t *testing.T) {
	raw := []byte{'o', 'k', 0xFF, 0xFE, '!'}

	out := DecodeOutput(raw, "")

	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "ok")
}
