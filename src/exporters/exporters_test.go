package exporters

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/parsers"
)

var (
	agentTS = time.Date(2025, 11, 10, 13, 0, 0, 0, time.UTC)
	cpTS    = time.Date(2025, 11, 10, 13, 0, 1, 0, time.UTC)
)

func fixture() []models.PairedRecord {
	agent := &models.AgentRecord{
		Record: models.NewRecord(models.OriginAgent, "", &agentTS, 100, "ana"),
		Agent:  "chino",
	}
	cp := &models.CounterpartyRecord{
		Record:   models.NewRecord(models.OriginCounterparty, "", &cpTS, 100, "ana"),
		Operator: "opalfa",
		Wallet:   "VISA",
	}
	admin := &models.AgentRecord{
		Record:        models.NewRecord(models.OriginAgent, "", nil, 250.5, "te cargaron"),
		Agent:         "chino",
		IsAdminCharge: true,
	}
	lonely := &models.CounterpartyRecord{
		Record:   models.NewRecord(models.OriginCounterparty, "", nil, -12.345, `=cmd,"x"`),
		Operator: "op",
		Wallet:   "MP",
	}
	return []models.PairedRecord{
		{ID: "match-0", Agent: agent, Counterparty: cp, Status: models.StatusOK, Movement: models.MovementIncome},
		{ID: "admin-1", Agent: admin, Status: models.StatusOK, Movement: models.MovementIncome},
		{ID: "counterparty-miss-2", Counterparty: lonely, Status: models.StatusMissingAgent, Movement: models.MovementOutcome},
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 11, 10, 9, 5, 7, 0, time.FixedZone("ART", -3*3600))
	if got := ExportFileName("csv", now); got != "comparacion_2025-11-10-12-05-07.csv" {
		t.Errorf("ExportFileName() = %q", got)
	}
}

func TestCSVExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter().Export(&buf, fixture()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "AGENTE_NOMBRE,TURNO,AGENTE_HORA,AGENTE_USUARIO,AGENTE_MONTO,CHUNIOR_HORA,CHUNIOR_USUARIO,CHUNIOR_MONTO,OPERADOR,BILLETERA,ESTADO,TIPO_MOVIMIENTO" {
		t.Errorf("header = %q", lines[0])
	}

	want := []string{
		"CHINO,TM,2025-11-10T13:00:00.000Z,ana,100.00,2025-11-10T13:00:01.000Z,ana,100.00,OPALFA,VISA,OK,INGRESO",
		"CHINO,,,CARGA ADMIN,250.50,,,,,,ADMIN_CHARGE,INGRESO",
	}
	for i, w := range want {
		if lines[i+1] != w {
			t.Errorf("row %d = %q, want %q", i+1, lines[i+1], w)
		}
	}

	cols := parsers.ParseCSVLine(lines[3])
	if len(cols) != 12 {
		t.Fatalf("quoted row split into %d fields: %q", len(cols), lines[3])
	}
	if cols[6] != `'=cmd,"x"` {
		t.Errorf("username = %q, want formula-guarded value to round trip", cols[6])
	}
	if cols[7] != "-12.35" && cols[7] != "-12.34" {
		t.Errorf("amount = %q, want two decimals", cols[7])
	}
	if cols[10] != "MISSING_AGENT" || cols[11] != "EGRESO" {
		t.Errorf("status/movement = %q/%q", cols[10], cols[11])
	}
}

func TestExportNothing(t *testing.T) {
	exporters := []Exporter{NewCSVExporter(), NewXLSXExporter(time.UTC)}
	for _, e := range exporters {
		var buf bytes.Buffer
		if err := e.Export(&buf, nil); !errors.Is(err, ErrNothingToExport) {
			t.Errorf("%s Export(nil) error = %v, want ErrNothingToExport", e.Extension(), err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s wrote %d bytes for an empty set", e.Extension(), buf.Len())
		}
	}
}

func TestXLSXExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewXLSXExporter(time.UTC).Export(&buf, fixture()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v, want [%s]", sheets, SheetName)
	}

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if strings.Join(rows[0], "|") != strings.Join(xlsxHeaders, "|") {
		t.Errorf("header = %v", rows[0])
	}

	checks := []struct {
		cell, want string
	}{
		{"A2", "CHINO"},
		{"B2", "TM"},
		{"D2", "13:00:00"},
		{"E2", "ana"},
		{"F2", "100"},
		{"G2", "13:00:01"},
		{"J2", "OPALFA"},
		{"K2", "VISA"},
		{"L2", "OK"},
		{"E3", "CARGA ADMIN"},
		{"F3", "250.5"},
		{"L3", "ADMIN_CHARGE"},
		{"H4", `'=cmd,"x"`},
		{"L4", "MISSING_AGENT"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(SheetName, c.cell, excelize.Options{RawCellValue: true})
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s = %q, want %q", c.cell, got, c.want)
		}
	}

	date, err := f.GetCellValue(SheetName, "C2")
	if err != nil || date != "10/11/2025" {
		t.Errorf("C2 = %q (%v), want 10/11/2025", date, err)
	}
	if v, _ := f.GetCellValue(SheetName, "C3"); v != "" {
		t.Errorf("undated record should leave the date empty, got %q", v)
	}

	okStyle, _ := f.GetCellStyle(SheetName, "A2")
	adminStyle, _ := f.GetCellStyle(SheetName, "A3")
	missingStyle, _ := f.GetCellStyle(SheetName, "A4")
	if okStyle == adminStyle || okStyle == missingStyle || adminStyle == missingStyle {
		t.Errorf("each status should get its own fill: %d %d %d", okStyle, adminStyle, missingStyle)
	}
}
