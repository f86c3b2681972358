// Package runner executes external extraction tools as bounded,
// blocking subprocesses. Routine tool failures (missing binary,
// non-zero exit, timeout) are reported as RunResult data, never as
// errors, so callers can advance to the next candidate tool.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

const defaultMaxOutputBytes = 64 * 1024

// Options contains options for creating a Runner
type Options struct {
	Logger *utils.Logger

	// OutputCharset transcodes captured tool output from the named
	// encoding to UTF-8. Empty means treat output as UTF-8.
	OutputCharset string

	// MaxOutputBytes caps the captured combined stdout/stderr.
	MaxOutputBytes int
}

// Runner invokes external commands with per-call timeouts
type Runner struct {
	logger         *utils.Logger
	charset        string
	maxOutputBytes int
}

// New creates a new Runner with the given options
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	maxBytes := opts.MaxOutputBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxOutputBytes
	}

	return &Runner{
		logger:         logger.WithComponent("runner"),
		charset:        opts.OutputCharset,
		maxOutputBytes: maxBytes,
	}
}

// Run executes the command and classifies how it finished. Stdout and
// stderr are captured together since extraction tools scatter
// diagnostics across both.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) domain.RunResult {
	start := time.Now()

	if len(cmd.Argv) == 0 {
		return domain.RunResult{Status: domain.RunNotFound, ExitCode: -1}
	}

	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Argv[0], cmd.Argv[1:]...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}

	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf

	err := c.Run()

	raw := buf.Bytes()
	if len(raw) > r.maxOutputBytes {
		raw = raw[:r.maxOutputBytes]
	}

	result := domain.RunResult{
		Output:   DecodeOutput(raw, r.charset),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.Status = domain.RunOK
	case runCtx.Err() != nil:
		// Killed by deadline or cancellation
		result.Status = domain.RunTimedOut
		result.ExitCode = -1
	case errors.Is(err, exec.ErrNotFound):
		result.Status = domain.RunNotFound
		result.ExitCode = -1
	default:
		result.Status = domain.RunExitError
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}

	r.logger.Debug().
		Str("tool", cmd.Argv[0]).
		Str("status", result.Status.String()).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("Command finished")

	return result
}

// LookPath reports whether the named tool is available on PATH
func (r *Runner) LookPath(tool string) (string, error) {
	return exec.LookPath(tool)
}
