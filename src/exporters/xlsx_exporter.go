// backend/src/exporters/xlsx_exporter.go
package exporters

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/security/validation"
)

// SheetName is the single sheet of the spreadsheet export.
const SheetName = "Comparacion"

var xlsxHeaders = []string{
	"Agente", "Turno", "Fecha", "Hora Agente", "Usuario Agente", "Monto Agente",
	"Hora Chunior", "Usuario Chunior", "Monto Chunior", "Operador", "Billetera", "Estado",
}

// Column indexes (0-based) with special formats.
const (
	colDate         = 2
	colAgentAmount  = 5
	colCounterpAmt  = 8
	numericColWidth = 12
)

const currencyFormat = `"$"#,##0.00;[Red]-"$"#,##0.00`

var statusFills = map[models.Status]string{
	models.StatusOK:                  "D6F9E8",
	models.StatusMissingCounterparty: "FFEBEE",
	models.StatusMissingAgent:        "FFF3E0",
	models.StatusAdminCharge:         "E3F2FD",
}

const defaultFill = "FFFFFF"

// XLSXExporter writes a styled workbook. Dates and hours are rendered in Location.
type XLSXExporter struct {
	Location *time.Location
}

func NewXLSXExporter(loc *time.Location) *XLSXExporter {
	if loc == nil {
		loc = time.Local
	}
	return &XLSXExporter{Location: loc}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (e *XLSXExporter) Extension() string { return "xlsx" }

// rowStyles are the style ids for one status: plain cells, currency cells, the date cell.
type rowStyles struct {
	plain, currency, date int
}

type styleBook struct {
	f      *excelize.File
	header int
	byFill map[string]rowStyles
}

func border() []excelize.Border {
	out := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: "333333", Style: 1})
	}
	return out
}

func newStyleBook(f *excelize.File) (*styleBook, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0B1722"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	return &styleBook{f: f, header: header, byFill: map[string]rowStyles{}}, nil
}

func (b *styleBook) forStatus(s models.Status) (rowStyles, error) {
	fill, ok := statusFills[s]
	if !ok {
		fill = defaultFill
	}
	if rs, ok := b.byFill[fill]; ok {
		return rs, nil
	}

	mk := func(numFmt string) (int, error) {
		st := &excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
			Border: border(),
		}
		if numFmt != "" {
			st.CustomNumFmt = &numFmt
		}
		return b.f.NewStyle(st)
	}

	var rs rowStyles
	var err error
	if rs.plain, err = mk(""); err != nil {
		return rs, err
	}
	if rs.currency, err = mk(currencyFormat); err != nil {
		return rs, err
	}
	if rs.date, err = mk("dd/mm/yyyy"); err != nil {
		return rs, err
	}
	b.byFill[fill] = rs
	return rs, nil
}

// Export writes the workbook to w.
func (e *XLSXExporter) Export(w io.Writer, records []models.PairedRecord) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	styles, err := newStyleBook(f)
	if err != nil {
		return err
	}

	widths := make([]int, len(xlsxHeaders))
	for i, h := range xlsxHeaders {
		widths[i] = len(h)
		if err := e.setCell(f, i, 1, h, styles.header); err != nil {
			return err
		}
	}

	for r, p := range records {
		rs, err := styles.forStatus(p.ExportStatus())
		if err != nil {
			return fmt.Errorf("row style: %w", err)
		}
		for c, v := range e.row(p) {
			style := rs.plain
			switch c {
			case colAgentAmount, colCounterpAmt:
				style = rs.currency
			case colDate:
				style = rs.date
			}
			if err := e.setCell(f, c, r+2, v, style); err != nil {
				return err
			}
			widths[c] = max(widths[c], cellWidth(v))
		}
	}

	for i, wch := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(wch+2)); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	return f.Write(w)
}

func (e *XLSXExporter) setCell(f *excelize.File, col, row int, v any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	if v != nil {
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("cell %s: %w", cell, err)
		}
	}
	return f.SetCellStyle(SheetName, cell, cell, style)
}

// row returns the cell values in header order. Absent values are nil so the cell
// stays empty but still takes the row style.
func (e *XLSXExporter) row(p models.PairedRecord) []any {
	out := make([]any, len(xlsxHeaders))
	a, c := p.Agent, p.Counterparty

	if a != nil {
		out[0] = validation.SanitizeForFormulaInjection(strings.ToUpper(a.Agent))
		out[3] = e.clock(a.Timestamp)
		out[4] = validation.SanitizeForFormulaInjection(agentUser(a))
		out[5] = a.Amount
	}
	out[1] = string(p.ShiftLabel())
	if ts := p.EffectiveTime(); ts != nil {
		local := ts.In(e.Location)
		out[2] = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	}
	if c != nil {
		out[6] = e.clock(c.Timestamp)
		out[7] = validation.SanitizeForFormulaInjection(c.Username)
		out[8] = c.Amount
		out[9] = validation.SanitizeForFormulaInjection(strings.ToUpper(c.Operator))
		out[10] = validation.SanitizeForFormulaInjection(c.Wallet)
	}
	out[11] = string(p.ExportStatus())
	return out
}

func (e *XLSXExporter) clock(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.In(e.Location).Format("15:04:05")
}

func cellWidth(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return len([]rune(t))
	default:
		return numericColWidth
	}
}
