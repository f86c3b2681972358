package strategies

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/archivekit/extractall-go/internal/config"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

// StrategyType identifies a strategy variant
type StrategyType string

const (
	StrategyMultiTool       StrategyType = "multi_tool"
	StrategyMultipart       StrategyType = "multipart"
	StrategyPartialRecovery StrategyType = "partial_recovery"
)

// IsValidStrategy reports whether the type names a known strategy
func IsValidStrategy(st StrategyType) bool {
	switch st {
	case StrategyMultiTool, StrategyMultipart, StrategyPartialRecovery:
		return true
	}
	return false
}

// CreateStrategy creates a strategy of the given type
func CreateStrategy(st StrategyType, deps *Dependencies) Strategy {
	switch st {
	case StrategyMultiTool:
		return NewMultiToolStrategy(deps)
	case StrategyMultipart:
		return NewMultipartStrategy(deps)
	case StrategyPartialRecovery:
		return NewPartialRecoveryStrategy(deps)
	default:
		return nil
	}
}

// Chain is the ordered set of strategies tried against each archive.
// Ordering is decided by each strategy's Priority value, not by
// construction order, so the chain is deterministic and reorderable in
// tests.
type Chain struct {
	strategies []Strategy
	logger     *utils.Logger
}

// NewChain builds a chain from the given strategies, sorted by
// ascending priority
func NewChain(logger *utils.Logger, strats ...Strategy) *Chain {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	sorted := append([]Strategy(nil), strats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	return &Chain{
		strategies: sorted,
		logger:     logger.WithComponent("chain"),
	}
}

// Build assembles the chain for a behavior profile. The conservative
// profile runs the tool chain only; standard adds multipart handling;
// aggressive adds best-effort partial recovery. Gating happens here,
// at construction, so each strategy's applicability test stays about
// the archive, not about configuration.
func Build(cfg *config.Config, deps *Dependencies) *Chain {
	strats := []Strategy{NewMultiToolStrategy(deps)}

	if cfg.MultipartEnabled() {
		strats = append(strats, NewMultipartStrategy(deps))
	}
	if cfg.PartialEnabled() {
		strats = append(strats, NewPartialRecoveryStrategy(deps))
	}

	return NewChain(deps.Logger, strats...)
}

// Strategies returns the chain members in try order
func (c *Chain) Strategies() []Strategy {
	return append([]Strategy(nil), c.strategies...)
}

// Find returns the first strategy that applies to the archive, or nil
func (c *Chain) Find(info domain.ArchiveInfo) Strategy {
	for _, s := range c.strategies {
		if s.CanHandle(info) {
			return s
		}
	}
	return nil
}

// Extract tries each applicable strategy in priority order. The first
// result that is not FAILED is final; once a strategy succeeds, later
// ones never run. Exhausting the chain classifies the archive FAILED.
// The name of the deciding strategy is returned for bookkeeping.
func (c *Chain) Extract(ctx context.Context, info domain.ArchiveInfo, dest string) (domain.Outcome, string) {
	applicable := 0
	for _, s := range c.strategies {
		if !s.CanHandle(info) {
			continue
		}
		applicable++

		c.logger.Debug().
			Str("strategy", s.Name()).
			Int("priority", s.Priority()).
			Str("archive", filepath.Base(info.Path)).
			Msg("Trying strategy")

		outcome := s.Extract(ctx, info, dest)
		if outcome != domain.OutcomeFailed {
			return outcome, s.Name()
		}

		if ctx.Err() != nil {
			break
		}
	}

	if applicable == 0 {
		c.logger.Warn().
			Str("archive", filepath.Base(info.Path)).
			Str("format", string(info.Format)).
			Msg("No strategy applies to archive")
	}

	return domain.OutcomeFailed, ""
}
