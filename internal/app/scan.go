package app

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/archivekit/extractall-go/internal/detect"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/state"
)

// ScanDir classifies every regular file directly inside dir. The state
// file is excluded; the routing directories are directories and so are
// never listed. Unknown-format entries are included so the caller can
// count what it skips. Results follow directory order, which ReadDir
// keeps sorted by name.
func ScanDir(dir string) ([]domain.ArchiveInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.ArchiveInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if entry.Name() == state.StateFileName {
			continue
		}
		infos = append(infos, detect.Analyze(filepath.Join(dir, entry.Name())))
	}

	return infos, nil
}

// ScanTree walks root recursively and returns every recognized archive
// below it. Used for nested-archive discovery inside extracted content,
// where results interest us only when they are extractable.
func ScanTree(root string) ([]domain.ArchiveInfo, error) {
	var infos []domain.ArchiveInfo

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if info := detect.Analyze(path); info.Format.IsKnown() {
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return infos, nil
}
