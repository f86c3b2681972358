package strategies

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/tests/mocks"
	"github.com/archivekit/extractall-go/tests/testutil"
)

func newTestDeps(t *testing.T, fake *mocks.FakeRunner) *Dependencies {
	t.Helper()
	return NewDependencies(DependencyOptions{
		Logger: testutil.NewTestLogger(t),
		Runner: fake,
	})
}

func zipInfo(path string) domain.ArchiveInfo {
	return domain.ArchiveInfo{Path: path, Format: domain.FormatZip, PatternIndex: -1}
}

// TestDefaultToolChains tests the builtin tool chain table
func TestDefaultToolChains(t *testing.T) {
	chains := DefaultToolChains()

	// zip: unzip, then 7z, then the python fallback
	zipChain := chains[domain.FormatZip]
	require.Len(t, zipChain, 3)
	assert.Equal(t, "unzip", zipChain[0].Name)
	assert.Equal(t, "7z", zipChain[1].Name)
	assert.Equal(t, "python", zipChain[2].Name)

	// rar: unrar before 7z
	rarChain := chains[domain.FormatRar]
	require.Len(t, rarChain, 2)
	assert.Equal(t, "unrar", rarChain[0].Name)

	// every tar-family format, bare compression streams included,
	// shares the tar chain
	for _, f := range []domain.Format{
		domain.FormatTar, domain.FormatTarGz, domain.FormatTarBz2,
		domain.FormatTarXz, domain.FormatTarZst,
		domain.FormatGz, domain.FormatBz2, domain.FormatXz, domain.FormatZst,
	} {
		require.NotEmpty(t, chains[f], "format %s", f)
		assert.Equal(t, "tar", chains[f][0].Name)
	}

	// unknown has no chain
	assert.Empty(t, chains[domain.FormatUnknown])
}

// TestMultiTool_CanHandle tests applicability against the chain table
func TestMultiTool_CanHandle(t *testing.T) {
	s := NewMultiToolStrategy(newTestDeps(t, mocks.NewFakeRunner()))

	assert.True(t, s.CanHandle(zipInfo("/in/a.zip")))
	assert.True(t, s.CanHandle(domain.ArchiveInfo{Format: domain.FormatTarGz}))
	assert.False(t, s.CanHandle(domain.ArchiveInfo{Format: domain.FormatUnknown}))
}

// TestMultiTool_Priority tests the chain position
func TestMultiTool_Priority(t *testing.T) {
	s := NewMultiToolStrategy(newTestDeps(t, mocks.NewFakeRunner()))
	assert.Equal(t, PriorityMultiTool, s.Priority())
	assert.Equal(t, "multi_tool", s.Name())
}

// TestMultiTool_FirstToolWins tests that a clean exit stops the chain
func TestMultiTool_FirstToolWins(t *testing.T) {
	fake := mocks.NewFakeRunner().Script("unzip", mocks.OKResult(""))
	s := NewMultiToolStrategy(newTestDeps(t, fake))
	dest := filepath.Join(t.TempDir(), "out")

	outcome := s.Extract(context.Background(), zipInfo("/in/a.zip"), dest)

	assert.Equal(t, domain.OutcomeSuccess, outcome)
	assert.Equal(t, []string{"unzip"}, fake.ToolSequence())
}

// TestMultiTool_FallsThroughMissingTool tests advancing past a tool
// that is not installed
func TestMultiTool_FallsThroughMissingTool(t *testing.T) {
	fake := mocks.NewFakeRunner().
		MarkMissing("unzip").
		Script("7z", mocks.OKResult(""))
	s := NewMultiToolStrategy(newTestDeps(t, fake))
	dest := filepath.Join(t.TempDir(), "out")

	outcome := s.Extract(context.Background(), zipInfo("/in/a.zip"), dest)

	assert.Equal(t, domain.OutcomeSuccess, outcome)
	assert.Equal(t, []string{"unzip", "7z"}, fake.ToolSequence())
}

// TestMultiTool_FallsThroughExitErrorAndTimeout tests advancing past
// failing and hanging tools
func TestMultiTool_FallsThroughExitErrorAndTimeout(t *testing.T) {
	fake := mocks.NewFakeRunner().
		Script("unzip", mocks.FailResult(2, "End-of-central-directory signature not found")).
		Script("7z", mocks.TimeoutResult()).
		Script("python3", mocks.OKResult(""))
	s := NewMultiToolStrategy(newTestDeps(t, fake))
	dest := filepath.Join(t.TempDir(), "out")

	outcome := s.Extract(context.Background(), zipInfo("/in/a.zip"), dest)

	assert.Equal(t, domain.OutcomeSuccess, outcome)
	assert.Equal(t, []string{"unzip", "7z", "python3"}, fake.ToolSequence())
}

// TestMultiTool_AllToolsFail tests chain exhaustion
func TestMultiTool_AllToolsFail(t *testing.T) {
	fake := mocks.NewFakeRunner() // nothing scripted: every tool is missing
	s := NewMultiToolStrategy(newTestDeps(t, fake))
	dest := filepath.Join(t.TempDir(), "out")

	outcome := s.Extract(context.Background(), zipInfo("/in/a.zip"), dest)

	assert.Equal(t, domain.OutcomeFailed, outcome)
	assert.Equal(t, []string{"unzip", "7z", "python3"}, fake.ToolSequence())
}

// TestMultiTool_LockedArchive tests password detection in tool output
func TestMultiTool_LockedArchive(t *testing.T) {
	fake := mocks.NewFakeRunner().
		Script("unrar", mocks.FailResult(10, "Enter password (will not be echoed)")).
		Script("7z", mocks.FailResult(2, "ERROR: Wrong password"))
	s := NewMultiToolStrategy(newTestDeps(t, fake))
	dest := filepath.Join(t.TempDir(), "out")

	outcome := s.Extract(context.Background(), domain.ArchiveInfo{
		Path: "/in/secret.rar", Format: domain.FormatRar, PatternIndex: -1,
	}, dest)

	assert.Equal(t, domain.OutcomeLocked, outcome)
}

// TestMultiTool_TemplateExpansion tests placeholder substitution into
// the spawned argv
func TestMultiTool_TemplateExpansion(t *testing.T) {
	fake := mocks.NewFakeRunner().Script("unzip", mocks.OKResult(""))
	s := NewMultiToolStrategy(newTestDeps(t, fake))
	dest := filepath.Join(t.TempDir(), "out")

	s.Extract(context.Background(), zipInfo("/in/a.zip"), dest)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"unzip", "-q", "-o", "/in/a.zip", "-d", dest}, calls[0].Argv)
}

// TestMultiTool_CreatesDestination tests that the extraction directory
// exists before any tool runs
func TestMultiTool_CreatesDestination(t *testing.T) {
	fake := mocks.NewFakeRunner().Script("unzip", mocks.OKResult(""))
	s := NewMultiToolStrategy(newTestDeps(t, fake))
	dest := filepath.Join(t.TempDir(), "nested", "out")

	s.Extract(context.Background(), zipInfo("/in/a.zip"), dest)

	stat, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

// TestMultiTool_TimeoutPassedToRunner tests that the configured tool
// timeout reaches each invocation
func TestMultiTool_TimeoutPassedToRunner(t *testing.T) {
	fake := mocks.NewFakeRunner().Script("unzip", mocks.OKResult(""))
	deps := NewDependencies(DependencyOptions{
		Logger:  testutil.NewTestLogger(t),
		Runner:  fake,
		Timeout: 42 * time.Second,
	})
	s := NewMultiToolStrategy(deps)
	dest := filepath.Join(t.TempDir(), "out")

	s.Extract(context.Background(), zipInfo("/in/a.zip"), dest)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, deps.Timeout, calls[0].Timeout)
}
