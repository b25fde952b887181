package parsers

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "only blanks", input: "\n  \r\n\t\n", want: nil},
		{name: "bom and crlf", input: "\uFEFFa,b\r\nc,d\r\n", want: []string{"a,b", "c,d"}},
		{name: "mixed endings keep order", input: "one\n\ntwo\r\nthree", want: []string{"one", "two", "three"}},
		{name: "bom only stripped at start", input: "x\n\uFEFFy", want: []string{"x", "\uFEFFy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDelimitedLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim rune
		want  []string
	}{
		{name: "quoted comma and escaped quote", line: `"a, ""b"""`, delim: ',', want: []string{`a, "b"`}},
		{name: "quoted field beside plain", line: `x,"a, ""b""",y`, delim: ',', want: []string{"x", `a, "b"`, "y"}},
		{name: "trims fields", line: " a , b ,c ", delim: ',', want: []string{"a", "b", "c"}},
		{name: "empty fields kept", line: "a,,b,", delim: ',', want: []string{"a", "", "b", ""}},
		{name: "semicolon delimiter", line: `1;"x;y";2`, delim: ';', want: []string{"1", "x;y", "2"}},
		{name: "quote outside quotes toggles", line: `ab"c,d"e`, delim: ',', want: []string{"abc,de"}},
		{name: "empty line", line: "", delim: ',', want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDelimitedLine(tt.line, tt.delim)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDelimitedLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestQuoteFieldInvertsParser(t *testing.T) {
	values := []string{"plain", `a, "b"`, "multi\nline", `"`, ""}
	for _, v := range values {
		line := QuoteField(v) + "," + QuoteField("tail")
		got := ParseCSVLine(line)
		if len(got) != 2 || got[0] != v || got[1] != "tail" {
			t.Errorf("round trip of %q through %q gave %q", v, line, got)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "1.234,56", want: 1234.56},
		{raw: "$ -50,00", want: -50},
		{raw: "100", want: 100},
		{raw: "100.5", want: 100.5},
		{raw: "  $1.000.000,99 ", want: 1000000.99},
		{raw: "1,5,6", want: 1.5},
		{raw: "-", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseableAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrUnparseableAmount", tt.raw, err)
				}
				if AmountOrZero(tt.raw) != 0 {
					t.Errorf("AmountOrZero(%q) should fall back to 0", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2025-11-10 13:00:00", want: time.Date(2025, 11, 10, 13, 0, 0, 0, loc)},
		{raw: "2025-11-10T08:15", want: time.Date(2025, 11, 10, 8, 15, 0, 0, loc)},
		{raw: "2025-11-10", want: time.Date(2025, 11, 10, 0, 0, 0, 0, loc)},
		{raw: "10-11-2025 13:00:00", want: time.Date(2025, 11, 10, 13, 0, 0, 0, loc)},
		{raw: "3/2/2025 9:05", want: time.Date(2025, 2, 3, 9, 5, 0, 0, loc)},
		{raw: "2025-11-10T13:00:00-03:00", want: time.Date(2025, 11, 10, 16, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw, loc)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error: %v", tt.raw, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}

	for _, raw := range []string{"", "yesterday", "32-13-2025"} {
		if _, err := ParseTimestamp(raw, loc); !errors.Is(err, ErrUnparseableDate) {
			t.Errorf("ParseTimestamp(%q) error = %v, want ErrUnparseableDate", raw, err)
		}
		if TimestampOrNil(raw, loc) != nil {
			t.Errorf("TimestampOrNil(%q) should be nil", raw)
		}
	}
}

func TestParseTimestampUsesLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	got, err := ParseTimestamp("2025-11-10 23:30:00", loc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hour() != 23 || got.Location() != loc {
		t.Errorf("got %s, want 23:30 in ART", got)
	}
}

func TestDecodeText(t *testing.T) {
	if got := DecodeText([]byte("señor")); got != "señor" {
		t.Errorf("utf-8 input changed: %q", got)
	}
	// "señor" in Windows-1252: ñ is 0xF1.
	if got := DecodeText([]byte{'s', 'e', 0xF1, 'o', 'r'}); got != "señor" {
		t.Errorf("windows-1252 input decoded as %q", got)
	}
}
