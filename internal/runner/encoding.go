package runner

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DecodeOutput converts raw tool output to a UTF-8 string. When a
// charset is configured (localized unrar and 7z builds emit cp866,
// gbk and friends) the bytes are transcoded through that encoding;
// otherwise invalid UTF-8 sequences are replaced so the result is
// always printable.
func DecodeOutput(raw []byte, charset string) string {
	if charset != "" && charset != "utf-8" && charset != "utf8" {
		if decoded, err := decodeCharset(raw, charset); err == nil {
			return decoded
		}
	}

	if utf8.Valid(raw) {
		return string(raw)
	}

	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// decodeCharset transcodes raw bytes from the named encoding to UTF-8
func decodeCharset(raw []byte, charset string) (string, error) {
	e, err := htmlindex.Get(charset)
	if err != nil {
		return "", err
	}

	reader := transform.NewReader(bytes.NewReader(raw), e.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}
