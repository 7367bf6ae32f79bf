package extract

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// parseTXT decodes plain text, trying UTF-8 first, then Windows-1251 for
// legacy Cyrillic uploads, then Latin-1 as a byte-preserving fallback that
// cannot fail. The first decode that succeeds wins.
func parseTXT(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	if decoded, err := charmap.Windows1251.NewDecoder().Bytes(data); err == nil {
		return string(decoded), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
