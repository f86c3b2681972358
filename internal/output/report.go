package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/archivekit/extractall-go/internal/state"
)

// zstdMagic is the zstandard frame header
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// WriteReport writes a state report as indented JSON. A .zst path
// suffix compresses the payload with zstandard.
func WriteReport(report *state.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	return os.WriteFile(path, data, 0644)
}

// ReadReport reads a report back, transparently decompressing
// zstandard payloads. Compression is detected from the frame header
// rather than the file name.
func ReadReport(path string) (*state.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		data, err = dec.DecodeAll(data, nil)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decompress report: %w", err)
		}
	}

	var report state.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}
