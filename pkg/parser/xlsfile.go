package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

const xlsMaxRows = 1000

// ExtractXLS flattens an XLS workbook's cells into raw lines, applying the
// same first-column-is-date rule as the CSV path.
func (p *Parser) ExtractXLS(data []byte) ([]RawLine, []SkippedLine, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, nil, fmt.Errorf("error opening workbook: %w", err)
	}

	rows := workbook.ReadAllCells(xlsMaxRows)
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in sheet")
	}

	var lines []RawLine
	var skipped []SkippedLine

	for i, row := range rows {
		lineNo := i + 1
		if len(row) < 2 {
			continue
		}

		raw := strings.TrimSpace(strings.Join(row, " "))
		if raw == "" {
			continue
		}

		if isHeaderRow(row) {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipHeader, Text: raw})
			continue
		}

		dateText := strings.TrimSpace(row[0])
		if _, ok := ParseDate(dateText); !ok {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipNoDate, Text: raw})
			continue
		}

		remainder := strings.TrimSpace(strings.Join(row[1:], " "))
		if remainder == "" {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipEmptyRemainder, Text: raw})
			continue
		}

		lines = append(lines, RawLine{DateText: dateText, Remainder: remainder, LineNumber: lineNo})
	}

	return lines, skipped, nil
}
