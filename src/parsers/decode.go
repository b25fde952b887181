package parsers

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText returns b as a string. Content that is not valid UTF-8 is assumed
// to be Windows-1252, which is what spreadsheet tools on Spanish-locale Windows
// write when "CSV" is chosen instead of "CSV UTF-8".
func DecodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
