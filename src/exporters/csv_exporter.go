// backend/src/exporters/csv_exporter.go
package exporters

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/parsers"
	"github.com/username/chindiferencia/backend/src/security/validation"
)

var csvHeaders = []string{
	"AGENTE_NOMBRE", "TURNO", "AGENTE_HORA", "AGENTE_USUARIO", "AGENTE_MONTO",
	"CHUNIOR_HORA", "CHUNIOR_USUARIO", "CHUNIOR_MONTO", "OPERADOR", "BILLETERA",
	"ESTADO", "TIPO_MOVIMIENTO",
}

const csvTimeLayout = "2006-01-02T15:04:05.000Z"

// CSVExporter writes comma-separated rows. Missing values are written as empty fields.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (e *CSVExporter) Extension() string   { return "csv" }

// Export writes the header and one row per record, separated by "\n".
func (e *CSVExporter) Export(w io.Writer, records []models.PairedRecord) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(csvHeaders, ",")); err != nil {
		return err
	}
	for _, p := range records {
		if _, err := bw.WriteString("\n" + csvRow(p)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvRow(p models.PairedRecord) string {
	cols := make([]string, len(csvHeaders))
	if a := p.Agent; a != nil {
		cols[0] = text(strings.ToUpper(a.Agent))
		cols[2] = isoTime(a.Timestamp)
		cols[3] = text(agentUser(a))
		cols[4] = money(a.Amount)
	}
	cols[1] = string(p.ShiftLabel())
	if c := p.Counterparty; c != nil {
		cols[5] = isoTime(c.Timestamp)
		cols[6] = text(c.Username)
		cols[7] = money(c.Amount)
		cols[8] = text(strings.ToUpper(c.Operator))
		cols[9] = text(c.Wallet)
	}
	cols[10] = string(p.ExportStatus())
	cols[11] = string(p.Movement)

	for i, v := range cols {
		cols[i] = parsers.QuoteField(v)
	}
	return strings.Join(cols, ",")
}

func text(s string) string {
	return validation.SanitizeForFormulaInjection(s)
}

func isoTime(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(csvTimeLayout)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
