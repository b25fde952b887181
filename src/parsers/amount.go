// backend/src/parsers/amount.go
package parsers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparseableAmount is returned when no number can be read from the text.
var ErrUnparseableAmount = errors.New("unparseable amount")

var (
	amountJunkRe   = regexp.MustCompile(`[^\d,.\-]`)
	leadingFloatRe = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)
)

// NormalizeAmountText reduces locale-formatted money text to a dot-decimal number.
//
// Every character other than digits, comma, period and minus is dropped. If a
// comma remains, the text is assumed to use the comma as decimal separator: all
// periods are removed as thousands separators and the first comma becomes the
// decimal point. This is a locale assumption, not a general number parser:
// "1,234" reads as 1.234.
func NormalizeAmountText(raw string) string {
	s := amountJunkRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

// ParseAmount converts locale-formatted money text into a signed value.
// The longest numeric prefix of the normalized text is used, so trailing
// leftovers such as a second comma do not discard an otherwise readable amount.
func ParseAmount(raw string) (float64, error) {
	s := NormalizeAmountText(raw)
	num := leadingFloatRe.FindString(s)
	if num == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableAmount, raw)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrUnparseableAmount, raw, err)
	}
	return v, nil
}

// AmountOrZero is ParseAmount with the zero fallback applied. Empty text is zero.
func AmountOrZero(raw string) float64 {
	v, err := ParseAmount(raw)
	if err != nil {
		return 0
	}
	return v
}
