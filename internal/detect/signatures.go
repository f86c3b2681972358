package detect

import (
	"bytes"

	"github.com/archivekit/extractall-go/internal/domain"
)

// sniffLen is the number of leading bytes read for signature matching.
// The tar signature sits at offset 257, so the prefix must cover it.
const sniffLen = 512

// signature describes a magic-number match for one archive format.
type signature struct {
	format domain.Format
	magic  []byte
	offset int
}

// signatures is checked in order; longer entries come before shorter
// ones sharing a prefix.
var signatures = []signature{
	// ZIP (PK\x03\x04)
	{domain.FormatZip, []byte{0x50, 0x4B, 0x03, 0x04}, 0},
	// RAR v5 (Rar!\x1a\x07\x01\x00)
	{domain.FormatRar, []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, 0},
	// RAR v4 (Rar!\x1a\x07\x00)
	{domain.FormatRar, []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}, 0},
	// 7-Zip
	{domain.Format7z, []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, 0},
	// XZ (\xfd7zXZ\x00)
	{domain.FormatXz, []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}, 0},
	// Gzip
	{domain.FormatGz, []byte{0x1F, 0x8B}, 0},
	// Bzip2 (BZh)
	{domain.FormatBz2, []byte{0x42, 0x5A, 0x68}, 0},
	// Zstandard
	{domain.FormatZst, []byte{0x28, 0xB5, 0x2F, 0xFD}, 0},
	// Tar ("ustar" inside the first header block)
	{domain.FormatTar, []byte{0x75, 0x73, 0x74, 0x61, 0x72}, 257},
}

// matchSignature returns the format whose magic number matches the
// header, or FormatUnknown when nothing matches.
func matchSignature(header []byte) domain.Format {
	for _, sig := range signatures {
		end := sig.offset + len(sig.magic)
		if end > len(header) {
			continue
		}
		if bytes.Equal(header[sig.offset:end], sig.magic) {
			return sig.format
		}
	}
	return domain.FormatUnknown
}

// Signature pairs a magic byte sequence with the offset where it
// appears in the file.
type Signature struct {
	Magic  []byte
	Offset int
}

// SignaturesFor returns the known content signatures for a format.
func SignaturesFor(format domain.Format) []Signature {
	var sigs []Signature
	for _, sig := range signatures {
		if sig.format == format {
			sigs = append(sigs, Signature{Magic: sig.magic, Offset: sig.offset})
		}
	}
	return sigs
}

// MatchesFormat reports whether the file's leading bytes carry one of
// the format's signatures.
func MatchesFormat(path string, format domain.Format) bool {
	return sniffFormat(path) == format
}
