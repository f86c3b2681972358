package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/archivekit/extractall-go/internal/domain"
)

// FakeRunner is a scriptable CommandRunner for tests. Results are
// keyed by tool name (argv[0]); a tool with no script behaves like a
// missing binary.
type FakeRunner struct {
	mu      sync.Mutex
	scripts map[string][]domain.RunResult
	missing map[string]bool
	calls   []domain.Command
}

// NewFakeRunner creates an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		scripts: make(map[string][]domain.RunResult),
		missing: make(map[string]bool),
	}
}

// Script appends results for the named tool. Each invocation consumes
// one result; the last one repeats for further invocations.
func (f *FakeRunner) Script(tool string, results ...domain.RunResult) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[tool] = append(f.scripts[tool], results...)
	return f
}

// MarkMissing makes the named tool behave as absent from PATH
func (f *FakeRunner) MarkMissing(tool string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[tool] = true
	return f
}

// Run returns the next scripted result for the command's tool
func (f *FakeRunner) Run(_ context.Context, cmd domain.Command) domain.RunResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)

	if len(cmd.Argv) == 0 {
		return domain.RunResult{Status: domain.RunNotFound, ExitCode: -1}
	}

	tool := cmd.Argv[0]
	if f.missing[tool] {
		return domain.RunResult{Status: domain.RunNotFound, ExitCode: -1}
	}

	queue := f.scripts[tool]
	if len(queue) == 0 {
		return domain.RunResult{Status: domain.RunNotFound, ExitCode: -1}
	}

	result := queue[0]
	if len(queue) > 1 {
		f.scripts[tool] = queue[1:]
	}
	return result
}

// LookPath resolves scripted tools and fails for missing or unknown ones
func (f *FakeRunner) LookPath(tool string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.missing[tool] || len(f.scripts[tool]) == 0 {
		return "", fmt.Errorf("fake runner: %s not on PATH", tool)
	}
	return "/usr/bin/" + tool, nil
}

// Calls returns a copy of every command run so far
func (f *FakeRunner) Calls() []domain.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Command(nil), f.calls...)
}

// ToolSequence returns argv[0] of each call in order
func (f *FakeRunner) ToolSequence() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	seq := make([]string, 0, len(f.calls))
	for _, cmd := range f.calls {
		if len(cmd.Argv) > 0 {
			seq = append(seq, cmd.Argv[0])
		}
	}
	return seq
}

// OKResult returns a successful RunResult carrying the given output
func OKResult(output string) domain.RunResult {
	return domain.RunResult{Status: domain.RunOK, Output: output}
}

// FailResult returns an exit-error RunResult with the given code and output
func FailResult(code int, output string) domain.RunResult {
	return domain.RunResult{Status: domain.RunExitError, ExitCode: code, Output: output}
}

// TimeoutResult returns a timed-out RunResult
func TimeoutResult() domain.RunResult {
	return domain.RunResult{Status: domain.RunTimedOut, ExitCode: -1}
}
