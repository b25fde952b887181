package agent

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/parsers"
)

func TestClassifyHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    Layout
		wantErr bool
	}{
		{name: "main", header: "fecha,tipo,cantidad,,alias", want: LayoutMain},
		{name: "main upper case", header: "Fecha,Tipo,CANTIDAD,Movimiento,Alias,Saldo", want: LayoutMain},
		{name: "sub", header: "fecha,tipo,x,cantidad,y,z,Alias del jugador", want: LayoutSub},
		{name: "sub wins over main", header: "fecha,tipo,cantidad,cantidad,alias,z,alias del jugador", want: LayoutSub},
		{name: "unknown", header: "date,type,amount,user", wantErr: true},
		{name: "too short", header: "fecha", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyHeader(parsers.ParseCSVLine(tt.header))
			if tt.wantErr {
				if !errors.Is(err, ErrUnrecognizedLayout) {
					t.Fatalf("ClassifyHeader() error = %v, want ErrUnrecognizedLayout", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClassifyHeader() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ClassifyHeader() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseMainLayout(t *testing.T) {
	text := "sep=,\r\n" +
		"fecha,tipo,cantidad,movimiento,alias\r\n" +
		"2025-11-10 15:00:00,deposito,\"1.500,50\",carga,  Ana \r\n" +
		"2025-11-10 22:30:00,retiro,-200,descarga,BETO\r\n" +
		"2025-11-10 07:00:00,ajuste,300,Te cargaron saldo,admin\r\n" +
		"short,row\r\n" +
		"no commas here\r\n" +
		"garbage-date,deposito,abc,carga,carla\r\n"

	p := NewParser(nil, time.UTC)
	got, err := p.Parse(parsers.SplitLines(text), "chino")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Parse() returned %d records, want 4: %+v", len(got), got)
	}

	first := got[0]
	if first.Username != "ana" || first.Amount != 1500.5 || first.Agent != "chino" {
		t.Errorf("first record = %+v", first)
	}
	if first.Origin != models.OriginAgent || first.Shift != models.ShiftAfternoon || first.Movement != models.MovementIncome {
		t.Errorf("first record derived fields = %s/%s/%s", first.Origin, first.Shift, first.Movement)
	}
	if first.IsAdminCharge {
		t.Errorf("first record should not be an admin charge")
	}

	if got[1].Movement != models.MovementOutcome || got[1].Shift != models.ShiftNight || got[1].Username != "beto" {
		t.Errorf("second record = %+v", got[1])
	}
	if !got[2].IsAdminCharge || got[2].Shift != models.ShiftMorning {
		t.Errorf("third record should be a morning admin charge: %+v", got[2])
	}

	last := got[3]
	if last.Timestamp != nil || last.Shift != models.ShiftNone {
		t.Errorf("unparseable date should give nil timestamp and no shift: %+v", last)
	}
	if last.Amount != 0 || last.Movement != models.MovementIncome {
		t.Errorf("unparseable amount should give zero income: %+v", last)
	}
	if last.RawDate != "garbage-date" {
		t.Errorf("raw date = %q", last.RawDate)
	}
}

func TestParseSubLayout(t *testing.T) {
	lines := []string{
		"Fecha,Tipo,Origen,Cantidad,Destino,Saldo,Alias del jugador",
		"10-11-2025 05:59:00,Te cargaron fichas,x,500,y,1000,Lucas",
		"10-11-2025 06:00:00,Retiro,x,\"-1.000,00\",y,0,maria",
	}

	got, err := NewParser(nil, time.UTC).Parse(lines, "sub1")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Parse() returned %d records, want 2", len(got))
	}
	if !got[0].IsAdminCharge || got[0].Username != "lucas" || got[0].Amount != 500 || got[0].Shift != models.ShiftNight {
		t.Errorf("first record = %+v", got[0])
	}
	if got[1].IsAdminCharge || got[1].Amount != -1000 || got[1].Shift != models.ShiftMorning {
		t.Errorf("second record = %+v", got[1])
	}
	want := time.Date(2025, 11, 10, 6, 0, 0, 0, time.UTC)
	if got[1].Timestamp == nil || !got[1].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %s", got[1].Timestamp, want)
	}
}

func TestParseUnrecognizedFile(t *testing.T) {
	lines := []string{"date,type,amount,user,x", "2025-11-10,dep,100,ana,x"}
	got, err := NewParser(nil, time.UTC).Parse(lines, "weird")
	if !errors.Is(err, ErrUnrecognizedLayout) {
		t.Fatalf("Parse() error = %v, want ErrUnrecognizedLayout", err)
	}
	if len(got) != 0 {
		t.Errorf("Parse() returned %d records for a skipped file", len(got))
	}
}

func TestParseEmptyInputs(t *testing.T) {
	p := NewParser(nil, time.UTC)
	for _, lines := range [][]string{nil, {"sep=;"}, {"fecha,tipo,cantidad,,alias"}} {
		got, err := p.Parse(lines, "x")
		if err != nil || len(got) != 0 {
			t.Errorf("Parse(%q) = %v, %v; want no records and no error", lines, got, err)
		}
	}
}

func TestCustomAdminPattern(t *testing.T) {
	p := NewParser(regexp.MustCompile(`(?i)credited you`), time.UTC)
	got, err := p.Parse([]string{
		"fecha,tipo,cantidad,movimiento,alias",
		"2025-11-10 10:00:00,x,100,Admin credited you,ana",
		"2025-11-10 10:00:00,x,100,Te cargaron,ana",
	}, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].IsAdminCharge || got[1].IsAdminCharge {
		t.Errorf("admin flags = %v, %v; want true, false", got[0].IsAdminCharge, got[1].IsAdminCharge)
	}
}

func TestAgentNameFromFile(t *testing.T) {
	tests := map[string]string{
		"agente_chino.csv":      "chino",
		"AGENTE_Pepe2.CSV":      "pepe2",
		"SubAgenteLuna.csv":     "luna",
		"reporte_noviembre.csv": "reporte_noviembre",
		"export.CSV":            "export",
		"plain":                 "plain",
	}
	for in, want := range tests {
		if got := AgentNameFromFile(in); got != want {
			t.Errorf("AgentNameFromFile(%q) = %q, want %q", in, got, want)
		}
	}
}
