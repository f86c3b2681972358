package strategies

import (
	"context"
	"time"

	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

// Per-command bounds for recovery work. Entry extraction gets a tight
// timeout since a single stuck entry must not stall the whole sweep.
const (
	entryTimeout = 5 * time.Second
	bulkTimeout  = 30 * time.Second
)

// PartialRecoveryStrategy salvages what it can from damaged archives.
// Zip archives are taken apart entry by entry; rar and 7z rely on the
// tool's own keep-broken / skip-existing modes. Tar streams are
// excluded: a truncated tar aborts mid-stream and there is nothing to
// salvage selectively.
type PartialRecoveryStrategy struct {
	deps   *Dependencies
	logger *utils.Logger
}

// NewPartialRecoveryStrategy creates a new partial recovery strategy
func NewPartialRecoveryStrategy(deps *Dependencies) *PartialRecoveryStrategy {
	return &PartialRecoveryStrategy{
		deps:   deps,
		logger: deps.Logger.WithStrategy("partial_recovery"),
	}
}

// Name returns the strategy name
func (s *PartialRecoveryStrategy) Name() string { return "partial_recovery" }

// Priority returns the chain position
func (s *PartialRecoveryStrategy) Priority() int { return PriorityPartialRecovery }

// CanHandle covers the formats with a recovery procedure
func (s *PartialRecoveryStrategy) CanHandle(info domain.ArchiveInfo) bool {
	switch info.Format {
	case domain.FormatZip, domain.FormatRar, domain.Format7z:
		return true
	}
	return false
}

// Extract attempts best-effort recovery. Individual entry failures are
// always swallowed; only the final Outcome escapes.
func (s *PartialRecoveryStrategy) Extract(ctx context.Context, info domain.ArchiveInfo, dest string) domain.Outcome {
	if err := utils.EnsureDir(dest); err != nil {
		s.logger.Error().Err(err).Str("dir", dest).Msg("Failed to create extraction directory")
		return domain.OutcomeFailed
	}

	switch info.Format {
	case domain.FormatZip:
		return s.recoverZip(ctx, info.Path, dest)
	case domain.FormatRar:
		return s.recoverRar(ctx, info.Path, dest)
	case domain.Format7z:
		return s.recover7z(ctx, info.Path, dest)
	}
	return domain.OutcomeFailed
}

// recoverZip lists the entries and pulls them out one at a time,
// partial if at least one came out intact
func (s *PartialRecoveryStrategy) recoverZip(ctx context.Context, path, dest string) domain.Outcome {
	handler := s.deps.Registry.Get(domain.FormatZip)
	if handler == nil {
		return domain.OutcomeFailed
	}

	entries := handler.ListContents(ctx, path)
	if len(entries) == 0 {
		return domain.OutcomeFailed
	}

	recovered := 0
	for _, entry := range entries {
		result := s.deps.Runner.Run(ctx, domain.Command{
			Argv:    []string{"unzip", "-j", path, entry, "-d", dest},
			Timeout: entryTimeout,
		})
		if result.OK() {
			recovered++
		}
	}

	if recovered == 0 {
		return domain.OutcomeFailed
	}

	s.logger.Info().
		Int("recovered", recovered).
		Int("entries", len(entries)).
		Msg("Recovered entries from damaged zip")
	return domain.OutcomePartial
}

// recoverRar runs unrar in keep-broken mode; partial if anything
// landed in the destination
func (s *PartialRecoveryStrategy) recoverRar(ctx context.Context, path, dest string) domain.Outcome {
	s.deps.Runner.Run(ctx, domain.Command{
		Argv:    []string{"unrar", "x", "-kb", "-y", path, dest},
		Timeout: bulkTimeout,
	})

	if utils.DirNonEmpty(dest) {
		return domain.OutcomePartial
	}
	return domain.OutcomeFailed
}

// recover7z runs 7z in skip-existing mode; partial if anything landed
// in the destination
func (s *PartialRecoveryStrategy) recover7z(ctx context.Context, path, dest string) domain.Outcome {
	s.deps.Runner.Run(ctx, domain.Command{
		Argv:    []string{"7z", "x", path, "-o" + dest, "-y", "-aos"},
		Timeout: bulkTimeout,
	})

	if utils.DirNonEmpty(dest) {
		return domain.OutcomePartial
	}
	return domain.OutcomeFailed
}
