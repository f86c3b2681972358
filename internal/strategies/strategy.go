// Package strategies implements the extraction strategies tried against
// each archive: a per-format external tool chain, split-volume
// reassembly, and best-effort recovery of damaged archives. Strategies
// classify every attempt as an Outcome and never return errors; a tool
// that is missing, exits non-zero or times out simply advances the
// chain.
package strategies

import (
	"context"
	"time"

	"github.com/archivekit/extractall-go/internal/config"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/handlers"
	"github.com/archivekit/extractall-go/internal/runner"
	"github.com/archivekit/extractall-go/internal/utils"
)

// Chain positions. Lower priority runs earlier.
const (
	PriorityMultiTool       = 10
	PriorityMultipart       = 20
	PriorityPartialRecovery = 80
)

// Strategy defines the interface for archive extraction strategies
type Strategy interface {
	// Name returns the strategy name
	Name() string
	// Priority orders strategies in the chain; lower runs earlier
	Priority() int
	// CanHandle returns true if this strategy applies to the archive
	CanHandle(info domain.ArchiveInfo) bool
	// Extract attempts extraction into dest and classifies the result
	Extract(ctx context.Context, info domain.ArchiveInfo, dest string) domain.Outcome
}

// Dependencies contains shared dependencies for all strategies
type Dependencies struct {
	Runner   domain.CommandRunner
	Logger   *utils.Logger
	Chains   domain.ToolChains
	Registry *handlers.Registry
	Timeout  time.Duration

	// MultipartThreshold is the minimum ratio of present parts to the
	// implied contiguous range before a split set is worth extracting.
	MultipartThreshold float64
}

// DependencyOptions contains options for creating dependencies
type DependencyOptions struct {
	Logger *utils.Logger

	// Runner overrides the process runner, mainly for tests
	Runner domain.CommandRunner

	// Chains overrides the builtin tool chains, typically loaded from
	// a toolchain manifest
	Chains domain.ToolChains

	Timeout            time.Duration
	OutputCharset      string
	MaxOutputBytes     int
	MultipartThreshold float64
}

// NewDependencies creates the shared strategy dependencies. A process
// runner and a handler registry are built unless injected.
func NewDependencies(opts DependencyOptions) *Dependencies {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	cmdRunner := opts.Runner
	if cmdRunner == nil {
		cmdRunner = runner.New(runner.Options{
			Logger:         logger,
			OutputCharset:  opts.OutputCharset,
			MaxOutputBytes: opts.MaxOutputBytes,
		})
	}

	chains := opts.Chains
	if chains == nil {
		chains = DefaultToolChains()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultToolTimeout
	}

	threshold := opts.MultipartThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = config.DefaultMultipartThreshold
	}

	registry := handlers.NewRegistry(handlers.Options{
		Runner:  cmdRunner,
		Logger:  logger,
		Timeout: timeout,
		Chains:  opts.Chains,
	})

	return &Dependencies{
		Runner:             cmdRunner,
		Logger:             logger,
		Chains:             chains,
		Registry:           registry,
		Timeout:            timeout,
		MultipartThreshold: threshold,
	}
}
