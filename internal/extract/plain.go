package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain decodes content as UTF-8, replacing invalid sequences with U+FFFD.
func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "�"), nil
	}
	return string(content), nil
}
