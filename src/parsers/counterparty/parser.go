// backend/src/parsers/counterparty/parser.go
package counterparty

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/parsers"
)

// Source labels warnings raised while parsing pasted counterparty text.
const Source = "counterparty"

const minParts = 4

var (
	tabRunRe     = regexp.MustCompile(`\t+`)
	spaceRunRe   = regexp.MustCompile(`[\s\p{Zs}]{2,}`)
	referenceRe  = regexp.MustCompile(`^\d{7,}$`)
	dateOnlyRe   = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	timeOnlyRe   = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	dayFirstRe   = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})\s+(\d{2}:\d{2}:\d{2})`)
	walletPrefix = regexp.MustCompile(`.*-\s*`)
)

// Parser reads lines copied from the counterparty platform's transaction log.
// Expected shape, tab or multi-space separated:
//
//	[reference] DD-MM-YYYY HH:MM:SS operator wallet amount username
type Parser struct {
	Location *time.Location
}

// NewParser creates a Parser reading zone-less timestamps in loc (time.Local when nil).
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{Location: loc}
}

// Parse converts pasted lines into records. Lines with fewer than four usable
// parts are skipped and reported as warnings; they never fail the run.
func (p *Parser) Parse(lines []string) ([]models.CounterpartyRecord, []models.ParseWarning) {
	var (
		records  []models.CounterpartyRecord
		warnings []models.ParseWarning
	)
	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parts := SplitParts(raw)
		if len(parts) < minParts {
			logger.L.Warn("Counterparty parser: skipping malformed line", "line", i+1, "content", raw)
			warnings = append(warnings, models.ParseWarning{
				Kind:    models.WarningMalformedLine,
				Source:  Source,
				Line:    i + 1,
				Message: fmt.Sprintf("expected at least %d fields, found %d", minParts, len(parts)),
			})
			continue
		}
		records = append(records, p.record(parts))
	}
	return records, warnings
}

// SplitParts applies the field adjustments to one line: split on tab runs (or on
// runs of two or more spaces when that yields fewer than two parts), drop a
// leading reference number of 7+ digits, and merge separate date and time parts.
func SplitParts(raw string) []string {
	parts := splitNonEmpty(tabRunRe, raw)
	if len(parts) < 2 {
		parts = splitNonEmpty(spaceRunRe, raw)
	}

	if len(parts) > 0 && referenceRe.MatchString(parts[0]) {
		parts = parts[1:]
	}

	if len(parts) >= 2 && dateOnlyRe.MatchString(parts[0]) && timeOnlyRe.MatchString(parts[1]) {
		merged := parts[0] + " " + parts[1]
		parts = append([]string{merged}, parts[2:]...)
	}
	return parts
}

func splitNonEmpty(re *regexp.Regexp, s string) []string {
	var out []string
	for _, part := range re.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p *Parser) record(parts []string) models.CounterpartyRecord {
	rawDate := parsers.Field(parts, 0)
	amount := parsers.AmountOrZero(parsers.Field(parts, 3))
	username := strings.ToLower(strings.TrimSpace(parsers.Field(parts, 4)))

	return models.CounterpartyRecord{
		Record:   models.NewRecord(models.OriginCounterparty, rawDate, p.timestamp(rawDate), amount, username),
		Operator: strings.ToLower(strings.TrimSpace(parsers.Field(parts, 1))),
		Wallet:   NormalizeWallet(parsers.Field(parts, 2)),
	}
}

// timestamp reads "DD-MM-YYYY HH:MM:SS" explicitly and falls back to the
// permissive parser for anything else.
func (p *Parser) timestamp(rawDate string) *time.Time {
	if rawDate == "" {
		return nil
	}
	if m := dayFirstRe.FindStringSubmatch(rawDate); m != nil {
		iso := fmt.Sprintf("%s-%s-%sT%s", m[3], m[2], m[1], m[4])
		if t, err := time.ParseInLocation("2006-01-02T15:04:05", iso, p.Location); err == nil {
			return &t
		}
		return nil
	}
	return parsers.TimestampOrNil(rawDate, p.Location)
}

// NormalizeWallet keeps the text after the last "-" (and the spaces following
// it), upper-cased: "BilleteraX - Visa" gives "VISA". If nothing is left the
// trimmed original is used.
func NormalizeWallet(raw string) string {
	wallet := strings.TrimSpace(walletPrefix.ReplaceAllString(raw, ""))
	if wallet == "" {
		wallet = strings.TrimSpace(raw)
	}
	return strings.ToUpper(wallet)
}
