// Package plaintext extracts plain UTF-8 text.
package plaintext

import (
	"bytes"
	"errors"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/extractors/textutil"
)

// errBinary is returned for content that is clearly not text.
var errBinary = errors.New("content contains NUL bytes")

// Extract returns the normalized text of a plain text document.
// Content containing NUL bytes is rejected as corrupt.
func Extract(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if bytes.IndexByte(content, 0) >= 0 {
		return "", domain.Corrupt(domain.FormatText, errBinary)
	}
	return textutil.Normalize(string(content)), nil
}
