package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/archivekit/extractall-go/internal/detect"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

// Routing directories created under the input directory
const (
	DirExtracted = "extracted"
	DirOutput    = "output"
	DirFailed    = "failed"
	DirLocked    = "locked"
)

// tempPrefix marks in-flight extraction directories under output/
const tempPrefix = "temp_"

// Mover routes archives and their extracted content into the layout
// directories after an outcome is known. Extraction always happens in a
// temp directory first and is promoted or discarded here, so output/
// only ever holds complete results.
type Mover struct {
	inputDir   string
	outputRoot string
	dryRun     bool
	logger     *utils.Logger
}

// MoverOptions contains options for the mover
type MoverOptions struct {
	InputDir string

	// OutputRoot overrides where extracted content lands. Empty means
	// output/ under the input directory. Archive routing always stays
	// under the input directory.
	OutputRoot string

	DryRun bool
	Logger *utils.Logger
}

// NewMover creates a mover rooted at the input directory
func NewMover(opts MoverOptions) *Mover {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	outputRoot := opts.OutputRoot
	if outputRoot == "" {
		outputRoot = filepath.Join(opts.InputDir, DirOutput)
	}

	return &Mover{
		inputDir:   opts.InputDir,
		outputRoot: outputRoot,
		dryRun:     opts.DryRun,
		logger:     logger.WithComponent("mover"),
	}
}

// Placement describes where Finalize put (or, in dry-run, would put)
// an archive and its extracted content
type Placement struct {
	ArchivePath string
	ContentPath string
}

// OutputDir returns the content destination root
func (m *Mover) OutputDir() string {
	return m.outputRoot
}

// EnsureLayout creates the routing directories. Dry-run plans only.
func (m *Mover) EnsureLayout() error {
	if m.dryRun {
		return nil
	}

	for _, dir := range []string{DirExtracted, DirFailed, DirLocked} {
		if err := utils.EnsureDir(filepath.Join(m.inputDir, dir)); err != nil {
			return err
		}
	}
	return utils.EnsureDir(m.outputRoot)
}

// TempDest returns the in-flight extraction directory for an archive
// base, creating it empty unless dry-run. A leftover temp directory
// from an interrupted run is cleared so its files cannot leak into
// this run's content.
func (m *Mover) TempDest(base string) (string, error) {
	dest := filepath.Join(m.OutputDir(), tempPrefix+base)
	if m.dryRun {
		return dest, nil
	}
	if err := os.RemoveAll(dest); err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Finalize routes one archive and its temp extraction directory for the
// given outcome: extracted content is kept for SUCCESS and PARTIAL and
// discarded otherwise; the archive lands in extracted/, failed/ or
// locked/. Sibling volumes of a multipart set are routed separately via
// MoveArchive.
func (m *Mover) Finalize(archive, tempDest, base string, outcome domain.Outcome) (Placement, error) {
	var placement Placement

	if outcome == domain.OutcomeSuccess || outcome == domain.OutcomePartial {
		contentPath, err := m.CommitContent(tempDest, base)
		if err != nil {
			return placement, err
		}
		placement.ContentPath = contentPath
	} else {
		if err := m.DiscardTemp(tempDest); err != nil {
			return placement, err
		}
	}

	archivePath, err := m.MoveArchive(archive, outcome)
	if err != nil {
		return placement, err
	}
	placement.ArchivePath = archivePath

	return placement, nil
}

// CommitContent promotes a temp extraction directory to output/<base>,
// resolving name conflicts by appending _N. An empty or missing temp
// directory is discarded without creating a content directory.
func (m *Mover) CommitContent(tempDest, base string) (string, error) {
	final := utils.UniquePath(filepath.Join(m.OutputDir(), base))

	if m.dryRun {
		m.logger.Info().Str("from", tempDest).Str("to", final).Msg("Would promote extracted content")
		return final, nil
	}

	if !utils.DirNonEmpty(tempDest) {
		return "", m.DiscardTemp(tempDest)
	}

	if err := utils.MoveDir(tempDest, final); err != nil {
		return "", fmt.Errorf("promote content for %s: %w", base, err)
	}

	m.logger.Debug().Str("path", final).Msg("Extracted content in place")
	return final, nil
}

// DiscardTemp removes an in-flight extraction directory
func (m *Mover) DiscardTemp(tempDest string) error {
	if m.dryRun || tempDest == "" {
		return nil
	}
	// Only ever delete our own temp directories
	if !strings.HasPrefix(filepath.Base(tempDest), tempPrefix) {
		return fmt.Errorf("refusing to discard non-temp directory %s", tempDest)
	}
	return os.RemoveAll(tempDest)
}

// MoveArchive routes a single archive file into the directory for its
// outcome and returns the final location
func (m *Mover) MoveArchive(path string, outcome domain.Outcome) (string, error) {
	dir := outcomeDir(outcome)
	dest := utils.UniquePath(filepath.Join(m.inputDir, dir, filepath.Base(path)))

	if m.dryRun {
		m.logger.Info().Str("from", path).Str("to", dest).Msg("Would move archive")
		return dest, nil
	}

	if err := utils.EnsureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}
	if err := utils.MoveFile(path, dest); err != nil {
		return "", fmt.Errorf("move archive %s: %w", filepath.Base(path), err)
	}

	m.logger.Debug().Str("from", path).Str("to", dest).Str("outcome", string(outcome)).Msg("Archive routed")
	return dest, nil
}

// outcomeDir maps an outcome to its routing directory. Partial results
// keep their recovered content, but the archive itself was not fully
// extracted, so it files under failed/.
func outcomeDir(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeSuccess:
		return DirExtracted
	case domain.OutcomeLocked:
		return DirLocked
	default:
		return DirFailed
	}
}

// BaseFor derives the content directory name for an archive: the
// multipart base name when present, otherwise the filename with its
// archive extension stripped, compound forms first.
func BaseFor(info domain.ArchiveInfo) string {
	if info.IsMultipart && info.BaseName != "" {
		return info.BaseName
	}

	name := filepath.Base(info.Path)
	lower := strings.ToLower(name)
	for _, ext := range detect.KnownExtensions() {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
