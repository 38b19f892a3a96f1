package parser

import (
	"encoding/csv"
	"io"
	"strings"
)

// extractCSV splits statement text on the detected delimiter. The first
// field is assumed to be the date column; rows whose first field does not
// resolve to a date are dropped.
func (p *Parser) extractCSV(text string, delim rune) ([]RawLine, []SkippedLine) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var lines []RawLine
	var skipped []SkippedLine

	lineNo := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			p.logger.Debug("unreadable csv row, skipping", "line", lineNo, "err", err)
			continue
		}
		if len(record) < 2 {
			continue
		}

		raw := strings.Join(record, string(delim))

		if isHeaderRow(record) {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipHeader, Text: raw})
			continue
		}

		dateText := strings.TrimSpace(record[0])
		if _, ok := ParseDate(dateText); !ok {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipNoDate, Text: raw})
			continue
		}

		remainder := strings.TrimSpace(strings.Join(record[1:], " "))
		if remainder == "" {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipEmptyRemainder, Text: raw})
			continue
		}

		lines = append(lines, RawLine{DateText: dateText, Remainder: remainder, LineNumber: lineNo})
	}

	return lines, skipped
}

// isHeaderRow reports whether a CSV record looks like a column header.
func isHeaderRow(record []string) bool {
	for _, field := range record {
		if strings.Contains(strings.ToLower(field), "description") {
			return true
		}
	}
	return false
}
