package strategies

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/archivekit/extractall-go/internal/detect"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

// MultipartStrategy reassembles split archives: it verifies enough
// sibling volumes are present, then drives the tool chain with the
// head volume. The tools locate the remaining volumes by naming
// convention on their own.
type MultipartStrategy struct {
	deps      *Dependencies
	multiTool *MultiToolStrategy
	logger    *utils.Logger
}

// NewMultipartStrategy creates a new multipart strategy
func NewMultipartStrategy(deps *Dependencies) *MultipartStrategy {
	return &MultipartStrategy{
		deps:      deps,
		multiTool: NewMultiToolStrategy(deps),
		logger:    deps.Logger.WithStrategy("multipart"),
	}
}

// Name returns the strategy name
func (s *MultipartStrategy) Name() string { return "multipart" }

// Priority returns the chain position
func (s *MultipartStrategy) Priority() int { return PriorityMultipart }

// CanHandle requires multipart naming and a tool chain for the format
func (s *MultipartStrategy) CanHandle(info domain.ArchiveInfo) bool {
	return info.IsMultipart && s.multiTool.CanHandle(info)
}

// Extract locates the sibling volumes, checks set completeness against
// the configured threshold, and delegates the head volume to the tool
// chain. An incomplete set fails without running any tool; a rerun
// after more volumes arrive may succeed.
func (s *MultipartStrategy) Extract(ctx context.Context, info domain.ArchiveInfo, dest string) domain.Outcome {
	if !info.IsMultipart {
		return domain.OutcomeFailed
	}

	related := s.findRelatedParts(info)
	if len(related) == 0 {
		related = []string{info.Path}
	}

	if !s.completeEnough(related) {
		s.logger.Warn().
			Str("archive", filepath.Base(info.Path)).
			Int("parts", len(related)).
			Msg("Split set too incomplete to extract")
		return domain.OutcomeFailed
	}

	// Related volumes are sorted, so the head comes first
	head := related[0]
	headInfo := detect.Analyze(head)
	if !headInfo.Format.IsKnown() {
		headInfo.Format = info.Format
	}

	s.logger.Debug().
		Str("head", filepath.Base(head)).
		Int("parts", len(related)).
		Msg("Extracting split set via head volume")

	return s.multiTool.Extract(ctx, headInfo, dest)
}

// findRelatedParts lists the containing directory and keeps the files
// belonging to the same split set
func (s *MultipartStrategy) findRelatedParts(info domain.ArchiveInfo) []string {
	dir := filepath.Dir(info.Path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{info.Path}
	}

	candidates := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			candidates = append(candidates, filepath.Join(dir, entry.Name()))
		}
	}

	return detect.FindRelatedParts(info.Path, candidates)
}

// completeEnough compares the number of present volumes against the
// contiguous range implied by their indices
func (s *MultipartStrategy) completeEnough(parts []string) bool {
	if len(parts) < 2 {
		return true
	}

	nums := detect.PartNumbers(parts)
	if len(nums) == 0 {
		return true
	}

	sort.Ints(nums)
	implied := nums[len(nums)-1] - nums[0] + 1
	ratio := float64(len(nums)) / float64(implied)

	return ratio >= s.deps.MultipartThreshold
}
