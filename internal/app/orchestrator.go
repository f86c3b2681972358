// Package app wires the collaborators into a batch run: scan the input
// directory, classify each file, drive the strategy chain, record the
// outcome, and route the files. One archive failing never aborts the
// batch; only a state persistence failure does.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/archivekit/extractall-go/internal/cache"
	"github.com/archivekit/extractall-go/internal/config"
	"github.com/archivekit/extractall-go/internal/detect"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/output"
	"github.com/archivekit/extractall-go/internal/state"
	"github.com/archivekit/extractall-go/internal/strategies"
	"github.com/archivekit/extractall-go/internal/utils"
)

// Orchestrator coordinates one extraction run over an input directory
type Orchestrator struct {
	config *config.Config
	deps   *strategies.Dependencies
	chain  *strategies.Chain
	store  *state.Store
	mover  *output.Mover
	cache  domain.Cache
	logger *utils.Logger

	inputDir string
	dryRun   bool
	quiet    bool
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config   *config.Config
	InputDir string

	// OutputRoot overrides where extracted content lands; empty keeps
	// the default output/ directory under the input directory
	OutputRoot string

	// Chains overrides the builtin tool chains, typically a toolchain
	// manifest merged over the defaults
	Chains domain.ToolChains

	// Runner, Cache and Logger replace the built collaborators, mainly
	// for tests. The orchestrator owns whatever cache it ends up with.
	Runner domain.CommandRunner
	Cache  domain.Cache
	Logger *utils.Logger
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	inputDir := utils.ExpandPath(opts.InputDir)
	fi, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInputDirMissing, opts.InputDir)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInputDirMissing, opts.InputDir)
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := "info"
		logFormat := "pretty"
		if cfg.Logging.Level != "" {
			logLevel = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			logFormat = cfg.Logging.Format
		}
		if opts.Verbose {
			logLevel = "debug"
		}
		if opts.Quiet {
			logLevel = "error"
		}

		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	deps := strategies.NewDependencies(strategies.DependencyOptions{
		Logger:             logger,
		Runner:             opts.Runner,
		Chains:             opts.Chains,
		Timeout:            cfg.Tools.Timeout,
		OutputCharset:      cfg.Tools.OutputCharset,
		MaxOutputBytes:     cfg.Tools.MaxOutputBytes,
		MultipartThreshold: cfg.Strategies.MultipartThreshold,
	})

	probeCache := opts.Cache
	if probeCache == nil && cfg.Cache.Enabled {
		c, cerr := cache.NewBadgerCache(cache.Options{
			Directory: utils.ExpandPath(cfg.Cache.Directory),
			TTL:       cfg.Cache.TTL,
		})
		if cerr != nil {
			// The cache only saves repeated probes; a run without it is
			// just slower
			logger.Warn().Err(cerr).Msg("Probe cache unavailable, continuing without it")
		} else {
			probeCache = c
		}
	}

	return &Orchestrator{
		config: cfg,
		deps:   deps,
		chain:  strategies.Build(cfg, deps),
		store: state.NewStore(state.StoreOptions{
			Dir:    inputDir,
			Logger: logger,
		}),
		mover: output.NewMover(output.MoverOptions{
			InputDir:   inputDir,
			OutputRoot: opts.OutputRoot,
			DryRun:     opts.DryRun,
			Logger:     logger,
		}),
		cache:    probeCache,
		logger:   logger.WithComponent("orchestrator"),
		inputDir: inputDir,
		dryRun:   opts.DryRun,
		quiet:    opts.Quiet,
	}, nil
}

// Run executes one batch pass over the input directory and returns the
// run summary. Archive-level failures are absorbed into outcomes; the
// returned error is reserved for run-level problems such as a failed
// state save or cancellation.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunSummary, error) {
	start := time.Now()
	summary := &domain.RunSummary{}

	o.logger.Info().
		Str("input_dir", o.inputDir).
		Str("mode", string(o.config.Mode)).
		Bool("dry_run", o.dryRun).
		Msg("Starting extraction run")

	if err := o.mover.EnsureLayout(); err != nil {
		return summary, err
	}

	stats := o.store.Load(ctx)
	if stats.TotalProcessed > 0 {
		o.logger.Info().
			Int("previously_processed", stats.TotalProcessed).
			Msg("Resuming with existing state")
	}

	infos, err := ScanDir(o.inputDir)
	if err != nil {
		return summary, err
	}
	summary.Scanned = len(infos)

	// Every scanned path is a sibling candidate for multipart grouping
	candidates := make([]string, 0, len(infos))
	for _, info := range infos {
		candidates = append(candidates, info.Path)
	}

	work := make([]domain.ArchiveInfo, 0, len(infos))
	for _, info := range infos {
		switch {
		case !info.Format.IsKnown():
			o.logger.Debug().
				Str("file", filepath.Base(info.Path)).
				Msg("Skipping unrecognized file")
			summary.Skipped++
		case o.store.IsProcessed(info.Path):
			o.logger.Debug().
				Str("file", filepath.Base(info.Path)).
				Msg("Already processed, skipping")
			summary.Skipped++
		default:
			work = append(work, info)
		}
	}

	if len(work) == 0 {
		o.logger.Info().
			Int("scanned", summary.Scanned).
			Int("skipped", summary.Skipped).
			Msg("Nothing to extract")
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	var bar *progressbar.ProgressBar
	if !o.quiet && !o.dryRun {
		bar = utils.NewProgressBar(len(work), utils.DescExtracting)
	}

	for _, info := range work {
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Extraction run cancelled")
			summary.Elapsed = time.Since(start)
			return summary, ctx.Err()
		}

		// A sibling volume may have been marked while its set extracted
		if o.store.IsProcessed(info.Path) {
			summary.Skipped++
			if bar != nil {
				bar.Add(1)
			}
			continue
		}

		if o.dryRun {
			o.planOne(info)
			continue
		}

		if err := o.processOne(ctx, info, candidates, summary); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	summary.Elapsed = time.Since(start)
	o.logger.Info().
		Int("scanned", summary.Scanned).
		Int("skipped", summary.Skipped).
		Int("success", summary.Success).
		Int("partial", summary.Partial).
		Int("failed", summary.Failed).
		Int("locked", summary.Locked).
		Dur("elapsed", summary.Elapsed).
		Msg("Extraction run completed")

	return summary, nil
}

// planOne reports what a real run would do with the archive
func (o *Orchestrator) planOne(info domain.ArchiveInfo) {
	strategy := o.chain.Find(info)
	if strategy == nil {
		o.logger.Info().
			Str("archive", filepath.Base(info.Path)).
			Str("format", string(info.Format)).
			Msg("Would skip, no applicable strategy")
		return
	}

	o.logger.Info().
		Str("archive", filepath.Base(info.Path)).
		Str("format", string(info.Format)).
		Str("strategy", strategy.Name()).
		Msg("Would extract")
}

// processOne runs the chain for one archive, records the outcome, and
// routes the files. Only a state persistence failure propagates as an
// error; everything about the archive itself is absorbed into its
// outcome.
func (o *Orchestrator) processOne(ctx context.Context, info domain.ArchiveInfo, candidates []string, summary *domain.RunSummary) error {
	logger := o.logger.WithArchive(filepath.Base(info.Path))
	base := output.BaseFor(info)

	o.preTest(ctx, info, logger)

	dest, err := o.mover.TempDest(base)
	if err != nil {
		return err
	}

	outcome, strategyName := o.chain.Extract(ctx, info, dest)
	logger.Info().
		Str("outcome", string(outcome)).
		Str("strategy", strategyName).
		Msg("Archive classified")

	// A split set that extracted resolves every sibling volume at once;
	// a failed attempt marks only the file actually tried, leaving the
	// siblings their own attempts.
	files := []string{info.Path}
	if info.IsMultipart && outcome != domain.OutcomeFailed {
		files = detect.FindRelatedParts(info.Path, candidates)
	}

	if err := o.store.MarkAllProcessed(ctx, files, outcome); err != nil {
		return err
	}
	for range files {
		summary.Record(outcome)
	}

	placement, err := o.mover.Finalize(info.Path, dest, base, outcome)
	if err != nil {
		logger.Warn().Err(err).Msg("Routing failed, archive left in place")
	}
	for _, part := range files {
		if part == info.Path {
			continue
		}
		if _, err := o.mover.MoveArchive(part, outcome); err != nil {
			logger.Warn().Err(err).
				Str("part", filepath.Base(part)).
				Msg("Routing failed for sibling volume")
		}
	}

	if outcome == domain.OutcomeSuccess && o.config.NestedEnabled() && placement.ContentPath != "" {
		o.processNested(ctx, placement.ContentPath, 1, summary)
	}

	return nil
}

// preTest probes archive integrity ahead of extraction in aggressive
// mode, flagging damage early. Verdicts are cached by content
// fingerprint, so an unchanged archive skips the probe on reruns.
func (o *Orchestrator) preTest(ctx context.Context, info domain.ArchiveInfo, logger *utils.Logger) {
	if o.config.Mode != config.ModeAggressive {
		return
	}
	// Probing a single split volume says nothing about the set
	if info.IsMultipart {
		return
	}

	handler := o.deps.Registry.Get(info.Format)
	if handler == nil {
		return
	}

	var key string
	if o.cache != nil {
		if k, kerr := cache.TestKeyFor(info.Path); kerr == nil {
			key = k
			if verdict, cerr := cache.GetTestVerdict(ctx, o.cache, key); cerr == nil {
				if !verdict.Passed {
					logger.Warn().Msg("Integrity pre-test failed previously, archive unchanged since")
				}
				return
			}
		}
	}

	passed := handler.TestArchive(ctx, info.Path)
	if !passed {
		logger.Warn().Msg("Integrity pre-test failed, archive looks damaged")
	}

	if o.cache != nil && key != "" {
		verdict := cache.TestVerdict{Path: info.Path, Passed: passed, TestedAt: time.Now()}
		if err := cache.PutTestVerdict(ctx, o.cache, key, verdict, cache.DefaultTestTTL); err != nil {
			logger.Debug().Err(err).Msg("Could not cache integrity verdict")
		}
	}
}

// processNested extracts archives discovered inside freshly extracted
// content, in place, up to the configured depth. Nested paths live
// under content directories that are unique per run, so they stay out
// of the state store; their outcomes still count into the summary.
func (o *Orchestrator) processNested(ctx context.Context, root string, depth int, summary *domain.RunSummary) {
	if depth > o.config.Strategies.NestedDepth {
		return
	}

	nested, err := ScanTree(root)
	if err != nil {
		o.logger.Warn().Err(err).Str("dir", root).Msg("Nested scan failed")
		return
	}
	if len(nested) == 0 {
		return
	}

	o.logger.Info().
		Int("count", len(nested)).
		Int("depth", depth).
		Str("dir", root).
		Msg("Found nested archives")

	for _, info := range nested {
		if ctx.Err() != nil {
			return
		}
		o.extractNested(ctx, info, depth, summary)
	}
}

// extractNested runs the chain for one nested archive, extracting next
// to it. Failed attempts leave no directory behind.
func (o *Orchestrator) extractNested(ctx context.Context, info domain.ArchiveInfo, depth int, summary *domain.RunSummary) {
	logger := o.logger.WithArchive(filepath.Base(info.Path))

	dest := utils.UniquePath(filepath.Join(filepath.Dir(info.Path), output.BaseFor(info)))
	if err := utils.EnsureDir(dest); err != nil {
		logger.Warn().Err(err).Msg("Cannot create nested destination")
		return
	}

	outcome, strategyName := o.chain.Extract(ctx, info, dest)
	summary.Record(outcome)

	logger.Info().
		Str("outcome", string(outcome)).
		Str("strategy", strategyName).
		Int("depth", depth).
		Msg("Nested archive classified")

	if outcome == domain.OutcomeFailed || outcome == domain.OutcomeLocked {
		if err := os.RemoveAll(dest); err != nil {
			logger.Warn().Err(err).Msg("Could not remove nested destination")
		}
		return
	}

	if outcome == domain.OutcomeSuccess {
		o.processNested(ctx, dest, depth+1, summary)
	}
}

// Stats returns the current state statistics
func (o *Orchestrator) Stats() state.Statistics {
	return o.store.Stats()
}

// OutputDir returns where extracted content lands
func (o *Orchestrator) OutputDir() string {
	return o.mover.OutputDir()
}

// Close releases the resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.cache != nil {
		return o.cache.Close()
	}
	return nil
}
