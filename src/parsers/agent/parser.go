// backend/src/parsers/agent/parser.go
package agent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/parsers"
)

// ErrUnrecognizedLayout means neither known header matched; the file is skipped.
var ErrUnrecognizedLayout = errors.New("unrecognized agent ledger format")

// DefaultAdminPattern is used when the Parser has no AdminPattern set.
var DefaultAdminPattern = regexp.MustCompile(`(?i)te cargaron`)

// Layout is one of the two known agent export layouts.
type Layout int

const (
	LayoutSub  Layout = iota + 1 // sub-agent export: "... ,cantidad, ..., alias del jugador"
	LayoutMain                   // main agent export: "... ,cantidad, ..., alias"
)

func (l Layout) String() string {
	switch l {
	case LayoutSub:
		return "sub"
	case LayoutMain:
		return "main"
	default:
		return "unknown"
	}
}

// columns are 0-based indexes into a data row. The date is always column 0.
type columns struct {
	amount   int
	username int
	kind     int // movement-type text
}

var layoutColumns = map[Layout]columns{
	LayoutSub:  {amount: 3, username: 6, kind: 1},
	LayoutMain: {amount: 2, username: 4, kind: 3},
}

const minFields = 5

// ClassifyHeader selects the layout from the header row.
func ClassifyHeader(header []string) (Layout, error) {
	col := func(i int) string { return strings.ToLower(parsers.Field(header, i)) }
	switch {
	case col(3) == "cantidad" && col(6) == "alias del jugador":
		return LayoutSub, nil
	case col(2) == "cantidad" && col(4) == "alias":
		return LayoutMain, nil
	default:
		return 0, ErrUnrecognizedLayout
	}
}

// Parser reads agent ledger exports.
type Parser struct {
	AdminPattern *regexp.Regexp
	Location     *time.Location
}

// NewParser creates a Parser. Nil arguments select DefaultAdminPattern and time.Local.
func NewParser(adminPattern *regexp.Regexp, loc *time.Location) *Parser {
	if adminPattern == nil {
		adminPattern = DefaultAdminPattern
	}
	if loc == nil {
		loc = time.Local
	}
	return &Parser{AdminPattern: adminPattern, Location: loc}
}

// Parse converts the tokenized lines of one export into records labelled with
// source. It returns ErrUnrecognizedLayout (wrapped) when the header matches no
// known layout; short or comma-less rows are skipped silently.
func (p *Parser) Parse(lines []string, source string) ([]models.AgentRecord, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	start := 0
	if strings.HasPrefix(strings.ToLower(lines[0]), "sep=") {
		start = 1
	}
	if start >= len(lines) {
		return nil, nil
	}

	layout, err := ClassifyHeader(parsers.ParseCSVLine(lines[start]))
	if err != nil {
		logger.L.Warn("Agent parser: could not determine CSV format, skipping file", "source", source, "header", lines[start])
		return nil, fmt.Errorf("%w: %s", err, source)
	}
	cols := layoutColumns[layout]
	logger.L.Debug("Agent parser: layout detected", "source", source, "layout", layout.String())

	records := make([]models.AgentRecord, 0, len(lines)-start-1)
	for _, line := range lines[start+1:] {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, ",") {
			continue
		}
		row := parsers.ParseCSVLine(line)
		if len(row) < minFields {
			continue
		}
		records = append(records, p.record(row, cols, source))
	}
	return records, nil
}

func (p *Parser) record(row []string, cols columns, source string) models.AgentRecord {
	rawDate := strings.TrimSpace(parsers.Field(row, 0))
	amount := parsers.AmountOrZero(parsers.Field(row, cols.amount))
	username := strings.ToLower(strings.TrimSpace(parsers.Field(row, cols.username)))

	var ts *time.Time
	if rawDate != "" {
		ts = parsers.TimestampOrNil(rawDate, p.Location)
	}

	return models.AgentRecord{
		Record:        models.NewRecord(models.OriginAgent, rawDate, ts, amount, username),
		Agent:         source,
		IsAdminCharge: p.AdminPattern.MatchString(parsers.Field(row, cols.kind)),
	}
}

var agentNameRe = regexp.MustCompile(`(?i)(?:agente|subagente)_?([a-zA-Z0-9]+)`)

var csvSuffixRe = regexp.MustCompile(`(?i)\.csv$`)

// AgentNameFromFile derives the ledger name from an upload's file name:
// "agente_chino.csv" and "SubAgenteChino.csv" both give "chino". Names without
// the marker fall back to the file name minus a ".csv" suffix.
func AgentNameFromFile(filename string) string {
	if m := agentNameRe.FindStringSubmatch(filename); m != nil && m[1] != "" {
		return strings.ToLower(m[1])
	}
	return csvSuffixRe.ReplaceAllString(filename, "")
}
