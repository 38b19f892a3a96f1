package parser

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Format
	}{
		{
			name: "comma separated with header",
			text: "Date,Description,Amount\n2024-03-15,COFFEE SHOP,5.50\n2024-03-16,BOOKSTORE,12.00",
			want: FormatCSV,
		},
		{
			name: "tab separated",
			text: "2024-03-15\tCOFFEE SHOP\t5.50\n2024-03-16\tBOOKSTORE\t12.00",
			want: FormatCSV,
		},
		{
			name: "freeform statement text",
			text: "Statement of account\n01/02/2024 SPINNEYS HAZMIEH 45,000\n02/02/2024 PHARMACY MAIN ST 120,000",
			want: FormatFreeform,
		},
		{
			name: "thousands separators are not delimiters",
			text: "01/02/2024 SPINNEYS 45,000\n02/02/2024 MARKET 12,500\n03/02/2024 FUEL 30,000",
			want: FormatFreeform,
		},
		{
			name: "two column tab separated",
			text: "2024-03-15\t45.00\n2024-03-16\t12.00",
			want: FormatCSV,
		},
		{
			name: "two column comma stays freeform",
			text: "2024-03-15,45.00\n2024-03-16,12.00",
			want: FormatFreeform,
		},
		{
			name: "empty input",
			text: "",
			want: FormatFreeform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.text); got != tt.want {
				t.Errorf("DetectFormat() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtractLinesCSV(t *testing.T) {
	text := "Date,Description,Amount\n" +
		"2024-03-15,COFFEE SHOP,5.50\n" +
		"2024-03-16,BOOKSTORE,12.00\n" +
		"not-a-date,JUNK ROW,1.00\n" +
		"2024-03-17,MARKET,30.00"

	p := New(log.Default())
	lines, skipped := p.ExtractLines(text)

	if len(lines) != 3 {
		t.Fatalf("expected 3 raw lines, got %d", len(lines))
	}
	if lines[0].DateText != "2024-03-15" || lines[0].Remainder != "COFFEE SHOP 5.50" {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	if lines[2].Remainder != "MARKET 30.00" {
		t.Errorf("unexpected last line: %+v", lines[2])
	}

	wantReasons := map[SkipReason]int{SkipHeader: 1, SkipNoDate: 1}
	gotReasons := map[SkipReason]int{}
	for _, s := range skipped {
		gotReasons[s.Reason]++
	}
	for reason, want := range wantReasons {
		if gotReasons[reason] != want {
			t.Errorf("skip reason %s: got %d, want %d", reason, gotReasons[reason], want)
		}
	}
}

func TestExtractLinesFreeform(t *testing.T) {
	text := "ACME BANK s.a.l.\n" +
		"Date Description Amount\n" +
		"\n" +
		"01/02/2024 SPINNEYS HAZMIEH 45,000\n" +
		"01/02/2024\n" +
		"02/02/2024 PHARMACY MAIN ST 120,000\n" +
		"Closing balance 1,234,567"

	p := New(log.Default())
	lines, skipped := p.ExtractLines(text)

	if len(lines) != 2 {
		t.Fatalf("expected 2 raw lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].DateText != "01/02/2024" || lines[0].Remainder != "SPINNEYS HAZMIEH 45,000" {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	if lines[0].LineNumber != 4 {
		t.Errorf("expected line number 4, got %d", lines[0].LineNumber)
	}

	gotReasons := map[SkipReason]int{}
	for _, s := range skipped {
		gotReasons[s.Reason]++
	}
	// Bank name, header and closing balance have no leading date; the bare
	// date line has an empty remainder. Blank lines are not recorded.
	if gotReasons[SkipNoDate] != 3 {
		t.Errorf("no_date skips = %d, want 3", gotReasons[SkipNoDate])
	}
	if gotReasons[SkipEmptyRemainder] != 1 {
		t.Errorf("empty_remainder skips = %d, want 1", gotReasons[SkipEmptyRemainder])
	}
}

func TestExtractFreeformCutsOnAnyWhitespace(t *testing.T) {
	p := New(log.Default())
	lines, _ := p.extractFreeform("01/02/2024\tSPINNEYS HAZMIEH 45,000")

	if len(lines) != 1 {
		t.Fatalf("expected 1 raw line, got %d", len(lines))
	}
	if lines[0].DateText != "01/02/2024" {
		t.Errorf("date text = %q", lines[0].DateText)
	}
	if lines[0].Remainder != "SPINNEYS HAZMIEH 45,000" {
		t.Errorf("remainder = %q", lines[0].Remainder)
	}
}

func TestExtractLinesTwoColumnTab(t *testing.T) {
	p := New(log.Default())
	lines, _ := p.ExtractLines("2024-03-15\t45.00\n2024-03-16\t12.00")

	if len(lines) != 2 {
		t.Fatalf("expected 2 raw lines, got %d", len(lines))
	}
	if lines[0].DateText != "2024-03-15" || lines[0].Remainder != "45.00" {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
}

func TestExtractLinesFreeformHeaderRemainder(t *testing.T) {
	// A dated line whose remainder is a header token is still skipped.
	text := "01/02/2024 description\n02/02/2024 GROCERY RUN 45,000\nfiller line without date"

	p := New(log.Default())
	lines, skipped := p.ExtractLines(text)

	if len(lines) != 1 {
		t.Fatalf("expected 1 raw line, got %d", len(lines))
	}
	found := false
	for _, s := range skipped {
		if s.Reason == SkipHeader {
			found = true
		}
	}
	if !found {
		t.Error("expected a header skip reason")
	}
}
