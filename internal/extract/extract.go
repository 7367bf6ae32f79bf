// Package extract converts uploaded document bytes into normalized plain text.
// It is pure and stateless: identical input bytes always yield identical text.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/javobly/javob/internal/domain"
)

// parser converts raw file bytes into un-normalized text.
type parser func(data []byte) (string, error)

// parsers is the closed set of supported extensions. Anything outside this
// table is rejected before storage is touched.
var parsers = map[string]parser{
	".pdf":  parsePDF,
	".docx": parseDOCX,
	".csv":  parseCSV,
	".txt":  parseTXT,
}

// Supported reports whether the filename carries an allowed extension.
func Supported(filename string) bool {
	_, ok := parsers[normalizeExt(filename)]
	return ok
}

// Extract dispatches on the filename extension and returns normalized text.
// It fails with domain.ErrUnsupportedFormat for unknown extensions, a
// domain extraction error on parse failure, and domain.ErrEmptyDocument when
// the document yields no text after whitespace normalization. The empty check
// applies uniformly to every format, so an image-only PDF and an empty DOCX
// are rejected the same way.
func Extract(data []byte, filename string) (string, error) {
	parse, ok := parsers[normalizeExt(filename)]
	if !ok {
		return "", domain.ErrUnsupportedFormat
	}

	text, err := parse(data)
	if err != nil {
		return "", domain.NewExtractionError("failed to extract "+strings.TrimPrefix(normalizeExt(filename), ".")+" text", err)
	}

	text = Normalize(text)
	if text == "" {
		return "", domain.ErrEmptyDocument
	}

	return text, nil
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func normalizeExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
