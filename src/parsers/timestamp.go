// backend/src/parsers/timestamp.go
package parsers

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseableDate is returned when none of the known layouts fit.
var ErrUnparseableDate = errors.New("unparseable date")

// isoLayouts are tried after the first space has been replaced by a literal 'T'.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// zonedLayouts carry their own offset and ignore the location.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
}

// freeFormLayouts are day-first, matching the locale of both ledgers.
var freeFormLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
	"2/1/2006",
	"2.1.2006 15:04:05",
	"2.1.2006",
}

// ParseTimestamp reads a ledger date permissively. Text without an offset is
// interpreted in loc (time.Local when nil).
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparseableDate)
	}

	withT := strings.Replace(s, " ", "T", 1)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, withT, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, withT); err == nil {
			return t.In(loc), nil
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range freeFormLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
}

// TimestampOrNil is ParseTimestamp with the null fallback applied.
func TimestampOrNil(raw string, loc *time.Location) *time.Time {
	t, err := ParseTimestamp(raw, loc)
	if err != nil {
		return nil
	}
	return &t
}
