package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/tests/testutil"
)

// writeFile creates a file with the given content and returns its path
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// tarHeader returns a byte prefix carrying the ustar signature at offset 257
func tarHeader() []byte {
	header := make([]byte, 512)
	copy(header[257:], "ustar")
	return header
}

// TestDetectType_ByExtension tests extension-based classification
func TestDetectType_ByExtension(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		want domain.Format
	}{
		{"data.zip", domain.FormatZip},
		{"DATA.ZIP", domain.FormatZip},
		{"movie.rar", domain.FormatRar},
		{"bundle.7z", domain.Format7z},
		{"backup.tar", domain.FormatTar},
		{"backup.tar.gz", domain.FormatTarGz},
		{"backup.tgz", domain.FormatTarGz},
		{"backup.tar.bz2", domain.FormatTarBz2},
		{"backup.tar.xz", domain.FormatTarXz},
		{"backup.tar.zst", domain.FormatTarZst},
		{"page.gz", domain.FormatGz},
		{"page.bz2", domain.FormatBz2},
		{"page.xz", domain.FormatXz},
		{"page.zst", domain.FormatZst},
		{"notes.txt", domain.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Garbage content proves the extension alone decides
			path := writeFile(t, tmpDir, tt.name, []byte("not a real archive"))
			assert.Equal(t, tt.want, DetectType(path))
		})
	}
}

// TestDetectType_BySignature tests magic-number classification for files
// without a recognized extension
func TestDetectType_BySignature(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
		want    domain.Format
	}{
		{"zip_blob", []byte("PK\x03\x04rest of zip"), domain.FormatZip},
		{"rar4_blob", []byte("Rar!\x1a\x07\x00payload"), domain.FormatRar},
		{"rar5_blob", []byte("Rar!\x1a\x07\x01\x00payload"), domain.FormatRar},
		{"sevenzip_blob", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0x00}, domain.Format7z},
		{"gzip_blob", []byte{0x1F, 0x8B, 0x08}, domain.FormatGz},
		{"bzip2_blob", []byte("BZh91AY"), domain.FormatBz2},
		{"xz_blob", []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}, domain.FormatXz},
		{"zstd_blob", []byte{0x28, 0xB5, 0x2F, 0xFD, 0x04}, domain.FormatZst},
		{"tar_blob", tarHeader(), domain.FormatTar},
		{"text_blob", []byte("just some text"), domain.FormatUnknown},
		{"empty_blob", []byte{}, domain.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.name, tt.content)
			assert.Equal(t, tt.want, DetectType(path))
		})
	}
}

// TestDetectType_RealArchives tests signature sniffing against genuine
// zip payloads rather than synthetic header blobs
func TestDetectType_RealArchives(t *testing.T) {
	tmpDir := t.TempDir()

	entries := map[string]string{"readme.txt": "hello", "data/a.bin": "payload"}

	// No recognized extension, so only the content can classify it
	real := testutil.WriteZip(t, filepath.Join(tmpDir, "bundle.bin"), entries)
	assert.Equal(t, domain.FormatZip, DetectType(real))

	// A zeroed central directory leaves the local headers intact, so
	// sniffing still recognizes the container
	damaged := testutil.WriteDamagedZip(t, filepath.Join(tmpDir, "broken.bin"), entries)
	assert.Equal(t, domain.FormatZip, DetectType(damaged))
}

// TestDetectType_MissingFile tests classification of nonexistent paths
func TestDetectType_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Extension still classifies without touching the file
	assert.Equal(t, domain.FormatZip, DetectType(filepath.Join(tmpDir, "missing.zip")))

	// No extension and no readable content means unknown
	assert.Equal(t, domain.FormatUnknown, DetectType(filepath.Join(tmpDir, "missing")))
}

// TestAnalyze tests ArchiveInfo construction including multipart metadata
func TestAnalyze(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name         string
		content      []byte
		wantFormat   domain.Format
		wantMulti    bool
		wantPart     int
		wantBase     string
		wantPatIndex int
	}{
		{
			name:         "archive.7z.001",
			content:      []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C},
			wantFormat:   domain.Format7z,
			wantMulti:    true,
			wantPart:     1,
			wantBase:     "archive",
			wantPatIndex: 0,
		},
		{
			name:         "backup.part2.7z",
			content:      []byte("garbage"),
			wantFormat:   domain.Format7z,
			wantMulti:    true,
			wantPart:     2,
			wantBase:     "backup",
			wantPatIndex: 1,
		},
		{
			name:         "volume.004.7z",
			content:      []byte("garbage"),
			wantFormat:   domain.Format7z,
			wantMulti:    true,
			wantPart:     4,
			wantBase:     "volume",
			wantPatIndex: 2,
		},
		{
			name:         "movie.r01",
			content:      []byte("continuation data"),
			wantFormat:   domain.FormatRar,
			wantMulti:    true,
			wantPart:     1,
			wantBase:     "movie",
			wantPatIndex: 3,
		},
		{
			name:         "movie.rar.003",
			content:      []byte("continuation data"),
			wantFormat:   domain.FormatRar,
			wantMulti:    true,
			wantPart:     3,
			wantBase:     "movie",
			wantPatIndex: 4,
		},
		{
			name:         "plain.zip",
			content:      []byte("PK\x03\x04"),
			wantFormat:   domain.FormatZip,
			wantMulti:    false,
			wantPart:     0,
			wantBase:     "",
			wantPatIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.name, tt.content)
			info := Analyze(path)

			assert.Equal(t, path, info.Path)
			assert.Equal(t, tt.wantFormat, info.Format)
			assert.Equal(t, int64(len(tt.content)), info.Size)
			assert.Equal(t, tt.wantMulti, info.IsMultipart)
			assert.Equal(t, tt.wantPart, info.PartIndex)
			assert.Equal(t, tt.wantBase, info.BaseName)
			assert.Equal(t, tt.wantPatIndex, info.PatternIndex)
		})
	}
}

// TestAnalyze_CaseInsensitivePatterns tests that volume patterns match
// regardless of filename case
func TestAnalyze_CaseInsensitivePatterns(t *testing.T) {
	tmpDir := t.TempDir()

	path := writeFile(t, tmpDir, "ARCHIVE.7Z.002", []byte("data"))
	info := Analyze(path)

	assert.True(t, info.IsMultipart)
	assert.Equal(t, 2, info.PartIndex)
	assert.Equal(t, "ARCHIVE", info.BaseName)
}

// TestFindRelatedParts tests grouping of split volumes by base name and
// naming pattern
func TestFindRelatedParts(t *testing.T) {
	tmpDir := t.TempDir()

	parts := []string{
		writeFile(t, tmpDir, "archive.7z.001", []byte("p1")),
		writeFile(t, tmpDir, "archive.7z.002", []byte("p2")),
		writeFile(t, tmpDir, "archive.7z.003", []byte("p3")),
	}
	// Same base but a different naming pattern: must be excluded
	decoy := writeFile(t, tmpDir, "archive.001.7z", []byte("d"))
	// Different base under the same pattern: must be excluded
	other := writeFile(t, tmpDir, "other.7z.001", []byte("o"))

	candidates := append(append([]string{}, parts...), decoy, other)

	related := FindRelatedParts(parts[0], candidates)
	assert.Equal(t, parts, related)
}

// TestFindRelatedParts_RarVolumes tests the classic rNN volume scheme
func TestFindRelatedParts_RarVolumes(t *testing.T) {
	tmpDir := t.TempDir()

	r00 := writeFile(t, tmpDir, "backup.r00", []byte("p"))
	r01 := writeFile(t, tmpDir, "backup.r01", []byte("p"))
	// rar.NNN is a different pattern even though both are rar schemes
	decoy := writeFile(t, tmpDir, "backup.rar.001", []byte("d"))

	related := FindRelatedParts(r00, []string{r00, r01, decoy})
	assert.Equal(t, []string{r00, r01}, related)
}

// TestFindRelatedParts_NotMultipart tests the single-file fallback
func TestFindRelatedParts_NotMultipart(t *testing.T) {
	tmpDir := t.TempDir()

	path := writeFile(t, tmpDir, "plain.zip", []byte("PK\x03\x04"))
	sibling := writeFile(t, tmpDir, "other.zip", []byte("PK\x03\x04"))

	related := FindRelatedParts(path, []string{path, sibling})
	assert.Equal(t, []string{path}, related)
}

// TestPartNumbers tests numeric index extraction
func TestPartNumbers(t *testing.T) {
	paths := []string{
		"/data/archive.7z.001",
		"/data/archive.7z.003",
		"/data/archive.7z.005",
		"/data/unrelated.txt",
	}

	assert.Equal(t, []int{1, 3, 5}, PartNumbers(paths))
	assert.Nil(t, PartNumbers([]string{"/data/plain.zip"}))
}

// TestKnownExtensions tests the advertised extension list
func TestKnownExtensions(t *testing.T) {
	exts := KnownExtensions()

	assert.Contains(t, exts, ".zip")
	assert.Contains(t, exts, ".tar.gz")
	assert.Contains(t, exts, ".7z")

	// Compound forms come first so display order matches match order
	assert.Equal(t, ".tar.gz", exts[0])
}

// TestSignaturesFor tests signature lookup by format
func TestSignaturesFor(t *testing.T) {
	// RAR has two signatures (v4 and v5)
	assert.Len(t, SignaturesFor(domain.FormatRar), 2)

	zipSigs := SignaturesFor(domain.FormatZip)
	require.Len(t, zipSigs, 1)
	assert.Equal(t, []byte{0x50, 0x4B, 0x03, 0x04}, zipSigs[0].Magic)
	assert.Equal(t, 0, zipSigs[0].Offset)

	tarSigs := SignaturesFor(domain.FormatTar)
	require.Len(t, tarSigs, 1)
	assert.Equal(t, 257, tarSigs[0].Offset)

	assert.Empty(t, SignaturesFor(domain.FormatUnknown))
}

// TestMatchesFormat tests content-based format confirmation
func TestMatchesFormat(t *testing.T) {
	tmpDir := t.TempDir()

	zipBlob := writeFile(t, tmpDir, "blob", []byte("PK\x03\x04data"))

	assert.True(t, MatchesFormat(zipBlob, domain.FormatZip))
	assert.False(t, MatchesFormat(zipBlob, domain.FormatRar))
	assert.False(t, MatchesFormat(filepath.Join(tmpDir, "missing"), domain.FormatZip))
}
