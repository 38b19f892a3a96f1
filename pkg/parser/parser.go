package parser

import (
	"strings"

	"github.com/charmbracelet/log"
)

// Format is the parsing path chosen for a statement's text.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatFreeform Format = "freeform"
)

// RawLine is one transaction candidate straight out of extraction: the date
// token, everything after it, and where it came from. Discarded after parsing.
type RawLine struct {
	DateText   string
	Remainder  string
	LineNumber int
}

// Parser extracts raw transaction lines from statement text. The amount and
// direction heuristic is pluggable per bank via WithClassifier.
type Parser struct {
	logger     *log.Logger
	classifier ClassifierFunc
}

// New creates a Parser with the default amount classifier.
func New(logger *log.Logger) *Parser {
	return &Parser{
		logger:     logger,
		classifier: ClassifyAmount,
	}
}

// WithClassifier swaps in a bank-specific amount/direction strategy.
func (p *Parser) WithClassifier(fn ClassifierFunc) *Parser {
	p.classifier = fn
	return p
}

// Classifier returns the active amount/direction strategy.
func (p *Parser) Classifier() ClassifierFunc {
	return p.classifier
}

// delimiters tried by format detection, in order of preference.
var delimiters = []rune{',', '\t', ';'}

const detectSampleLines = 20

// DetectFormat decides between the CSV and freeform parsing paths. Text is
// treated as CSV when a majority of sampled lines carry the same delimiter
// the same number of times. Ambiguous input falls back to freeform.
func DetectFormat(text string) Format {
	format, _ := detectFormat(text)
	return format
}

func detectFormat(text string) (Format, rune) {
	var sample []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sample = append(sample, line)
		if len(sample) == detectSampleLines {
			break
		}
	}
	if len(sample) == 0 {
		return FormatFreeform, 0
	}

	// A single thousands separator also looks like a comma, so comma lines
	// only count as delimited when they split into at least three columns.
	// Tabs and semicolons carry no such ambiguity.
	for _, delim := range delimiters {
		required := 1
		if delim == ',' {
			required = 2
		}
		counts := make(map[int]int)
		for _, line := range sample {
			if n := strings.Count(line, string(delim)); n >= required {
				counts[n]++
			}
		}
		for _, hits := range counts {
			if hits*2 > len(sample) {
				return FormatCSV, delim
			}
		}
	}
	return FormatFreeform, 0
}

// ExtractLines runs the statement text through the detected parsing path and
// returns raw transaction lines in input order plus the lines that were
// dropped, each with a named reason.
func (p *Parser) ExtractLines(text string) ([]RawLine, []SkippedLine) {
	format, delim := detectFormat(text)
	p.logger.Debug("detected statement format", "format", format)

	if format == FormatCSV {
		return p.extractCSV(text, delim)
	}
	return p.extractFreeform(text)
}
