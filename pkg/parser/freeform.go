package parser

import (
	"strings"
	"unicode"
)

// extractFreeform scans PDF-derived text line by line. A line begins a
// transaction only when its first whitespace-delimited token is a
// recognizable date; everything else is dropped silently with a reason.
func (p *Parser) extractFreeform(text string) ([]RawLine, []SkippedLine) {
	var lines []RawLine
	var skipped []SkippedLine

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		dateText, remainder := trimmed, ""
		if cut := strings.IndexFunc(trimmed, unicode.IsSpace); cut >= 0 {
			dateText, remainder = trimmed[:cut], strings.TrimSpace(trimmed[cut:])
		}
		if _, ok := ParseDate(dateText); !ok {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipNoDate, Text: trimmed})
			continue
		}

		if remainder == "" {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipEmptyRemainder, Text: trimmed})
			continue
		}
		if strings.Contains(strings.ToLower(remainder), "description") {
			skipped = append(skipped, SkippedLine{LineNumber: lineNo, Reason: SkipHeader, Text: trimmed})
			continue
		}

		lines = append(lines, RawLine{DateText: dateText, Remainder: remainder, LineNumber: lineNo})
	}

	return lines, skipped
}
