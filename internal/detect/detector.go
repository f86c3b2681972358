// Package detect classifies filesystem paths into archive formats and
// multipart metadata. Classification never fails: a file that matches
// neither a known extension nor a known signature is reported as
// FormatUnknown, which callers treat as "skip", not as an error.
package detect

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/archivekit/extractall-go/internal/domain"
)

// compoundExtensions are checked before single extensions so that
// "backup.tar.gz" resolves to the tar family rather than plain gzip.
var compoundExtensions = []struct {
	suffix string
	format domain.Format
}{
	{".tar.gz", domain.FormatTarGz},
	{".tar.bz2", domain.FormatTarBz2},
	{".tar.xz", domain.FormatTarXz},
	{".tar.zst", domain.FormatTarZst},
}

// extensionFormats maps single filename extensions to formats.
var extensionFormats = map[string]domain.Format{
	".zip":  domain.FormatZip,
	".rar":  domain.FormatRar,
	".7z":   domain.Format7z,
	".tar":  domain.FormatTar,
	".tgz":  domain.FormatTarGz,
	".tbz2": domain.FormatTarBz2,
	".txz":  domain.FormatTarXz,
	".gz":   domain.FormatGz,
	".bz2":  domain.FormatBz2,
	".xz":   domain.FormatXz,
	".zst":  domain.FormatZst,
}

// multipartPatterns is the fixed, ordered list of split-volume naming
// conventions, matched case-insensitively. The first match wins. Each
// pattern implies a format, used when neither extension nor signature
// identifies the file (continuation volumes often carry no magic bytes).
var multipartPatterns = []struct {
	re     *regexp.Regexp
	format domain.Format
}{
	{regexp.MustCompile(`(?i)^(.+)\.7z\.(\d{3})$`), domain.Format7z},
	{regexp.MustCompile(`(?i)^(.+)\.part(\d+)\.7z$`), domain.Format7z},
	{regexp.MustCompile(`(?i)^(.+)\.(\d{3})\.7z$`), domain.Format7z},
	{regexp.MustCompile(`(?i)^(.+)\.r(\d{2})$`), domain.FormatRar},
	{regexp.MustCompile(`(?i)^(.+)\.rar\.(\d{3})$`), domain.FormatRar},
}

// DetectType classifies a path into an archive format. The filename
// extension is checked first (compound forms before single ones), then
// the file's leading bytes are sniffed against the signature table.
func DetectType(path string) domain.Format {
	name := strings.ToLower(filepath.Base(path))

	for _, ce := range compoundExtensions {
		if strings.HasSuffix(name, ce.suffix) {
			return ce.format
		}
	}

	if format, ok := extensionFormats[filepath.Ext(name)]; ok {
		return format
	}

	return sniffFormat(path)
}

// sniffFormat reads a short byte prefix and matches it against the
// signature table. IO failures classify as unknown.
func sniffFormat(path string) domain.Format {
	f, err := os.Open(path)
	if err != nil {
		return domain.FormatUnknown
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return domain.FormatUnknown
	}

	return matchSignature(header[:n])
}

// Analyze builds the ArchiveInfo snapshot for a path: format, byte
// size, and multipart metadata from the first matching naming pattern.
func Analyze(path string) domain.ArchiveInfo {
	info := domain.ArchiveInfo{
		Path:         path,
		Format:       DetectType(path),
		PatternIndex: -1,
	}

	if fi, err := os.Stat(path); err == nil {
		info.Size = fi.Size()
	}

	if idx, base, part := matchMultipart(filepath.Base(path)); idx >= 0 {
		info.IsMultipart = true
		info.PartIndex = part
		info.BaseName = base
		info.PatternIndex = idx
		if !info.Format.IsKnown() {
			info.Format = multipartPatterns[idx].format
		}
	}

	return info
}

// matchMultipart returns the index of the first multipart pattern the
// name matches, along with the captured base name and numeric part
// index. A name matching no pattern yields index -1.
func matchMultipart(name string) (int, string, int) {
	for i, p := range multipartPatterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		part, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		return i, m[1], part
	}
	return -1, "", 0
}

// FindRelatedParts returns every candidate belonging to the same split
// set as path: identical base name matched by the same naming pattern.
// Candidates matched by a different pattern are excluded even when
// their base names coincide. A path that is not multipart relates only
// to itself. The result is sorted, so the head part comes first.
func FindRelatedParts(path string, candidates []string) []string {
	idx, base, _ := matchMultipart(filepath.Base(path))
	if idx < 0 {
		return []string{path}
	}

	var related []string
	for _, candidate := range candidates {
		cIdx, cBase, _ := matchMultipart(filepath.Base(candidate))
		if cIdx == idx && cBase == base {
			related = append(related, candidate)
		}
	}

	sort.Strings(related)
	return related
}

// PartNumbers extracts the numeric part index from each path matching
// a multipart pattern. Non-matching paths are skipped.
func PartNumbers(paths []string) []int {
	var nums []int
	for _, p := range paths {
		if idx, _, n := matchMultipart(filepath.Base(p)); idx >= 0 {
			nums = append(nums, n)
		}
	}
	return nums
}

// KnownExtensions returns the filename extensions the detector
// recognizes, compound forms first.
func KnownExtensions() []string {
	exts := make([]string, 0, len(compoundExtensions)+len(extensionFormats))
	for _, ce := range compoundExtensions {
		exts = append(exts, ce.suffix)
	}

	single := make([]string, 0, len(extensionFormats))
	for ext := range extensionFormats {
		single = append(single, ext)
	}
	sort.Strings(single)

	return append(exts, single...)
}
