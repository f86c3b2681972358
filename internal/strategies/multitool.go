package strategies

import (
	"context"
	"path/filepath"

	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/handlers"
	"github.com/archivekit/extractall-go/internal/utils"
)

// DefaultToolChains returns the builtin per-format tool chains. Order
// matters: preferred tools first, 7z as the general fallback. The tar
// chain serves every tar-family variant since tar auto-detects the
// compression layer.
func DefaultToolChains() domain.ToolChains {
	sevenZip := domain.Tool{Name: "7z", Argv: []string{"7z", "x", "{file}", "-o{output}", "-y"}}
	tarChain := []domain.Tool{
		{Name: "tar", Argv: []string{"tar", "-xf", "{file}", "-C", "{output}"}},
		sevenZip,
	}

	return domain.ToolChains{
		domain.FormatZip: {
			{Name: "unzip", Argv: []string{"unzip", "-q", "-o", "{file}", "-d", "{output}"}},
			sevenZip,
			{Name: "python", Argv: []string{"python3", "-m", "zipfile", "-e", "{file}", "{output}"}},
		},
		domain.FormatRar: {
			{Name: "unrar", Argv: []string{"unrar", "x", "-y", "{file}", "{output}"}},
			sevenZip,
		},
		domain.Format7z: {
			sevenZip,
			{Name: "7z-as-zip", Argv: []string{"7z", "x", "-tzip", "{file}", "-o{output}", "-y"}},
		},
		domain.FormatTar:    tarChain,
		domain.FormatTarGz:  tarChain,
		domain.FormatTarBz2: tarChain,
		domain.FormatTarXz:  tarChain,
		domain.FormatTarZst: tarChain,
		domain.FormatGz:     tarChain,
		domain.FormatBz2:    tarChain,
		domain.FormatXz:     tarChain,
		domain.FormatZst:    tarChain,
	}
}

// MultiToolStrategy tries multiple external tools for the same format
type MultiToolStrategy struct {
	deps   *Dependencies
	logger *utils.Logger
}

// NewMultiToolStrategy creates a new multi-tool strategy
func NewMultiToolStrategy(deps *Dependencies) *MultiToolStrategy {
	return &MultiToolStrategy{
		deps:   deps,
		logger: deps.Logger.WithStrategy("multi_tool"),
	}
}

// Name returns the strategy name
func (s *MultiToolStrategy) Name() string { return "multi_tool" }

// Priority returns the chain position
func (s *MultiToolStrategy) Priority() int { return PriorityMultiTool }

// CanHandle requires a configured tool chain for the archive's format
func (s *MultiToolStrategy) CanHandle(info domain.ArchiveInfo) bool {
	return len(s.deps.Chains[info.Format]) > 0
}

// Extract tries each tool in the chain; the first clean exit wins.
// When every tool fails and at least one reported a password prompt,
// the archive is classified locked rather than failed.
func (s *MultiToolStrategy) Extract(ctx context.Context, info domain.ArchiveInfo, dest string) domain.Outcome {
	if err := utils.EnsureDir(dest); err != nil {
		s.logger.Error().Err(err).Str("dir", dest).Msg("Failed to create extraction directory")
		return domain.OutcomeFailed
	}

	locked := false
	for _, tool := range s.deps.Chains[info.Format] {
		argv := handlers.ExpandTemplate(tool.Argv, info.Path, dest, nil)
		s.logger.Debug().
			Str("tool", tool.Name).
			Str("archive", filepath.Base(info.Path)).
			Msg("Trying tool")

		result := s.deps.Runner.Run(ctx, domain.Command{Argv: argv, Timeout: s.deps.Timeout})
		if result.OK() {
			s.logger.Info().
				Str("tool", tool.Name).
				Str("archive", filepath.Base(info.Path)).
				Msg("Extraction succeeded")
			return domain.OutcomeSuccess
		}

		if domain.IsLockedOutput(result.Output) {
			locked = true
		}

		s.logger.Debug().
			Str("tool", tool.Name).
			Str("status", result.Status.String()).
			Int("exit_code", result.ExitCode).
			Msg("Tool failed")
	}

	if locked {
		s.logger.Warn().Str("archive", filepath.Base(info.Path)).Msg("Archive appears password protected")
		return domain.OutcomeLocked
	}
	return domain.OutcomeFailed
}
