// Package pipeline wires extraction, normalization, classification and
// merchant resolution into one pass over a statement, producing candidate
// transactions ready for human review.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/ledgerkeep/ingest/pkg/merchant"
	"github.com/ledgerkeep/ingest/pkg/models"
	"github.com/ledgerkeep/ingest/pkg/parser"
)

var (
	// ErrUnsupportedFormat rejects files that are not csv/pdf-text/xls.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrStatementTooShort rejects PDF text that is implausibly small,
	// which usually means the PDF was image-only.
	ErrStatementTooShort = errors.New("statement text too short")
)

// Result is what one parse run hands back to the caller. Transactions keep
// input line order so the review UI is predictable.
type Result struct {
	Transactions   []models.ParsedTransaction `json:"transactions"`
	Skipped        []parser.SkippedLine       `json:"skipped,omitempty"`
	MatchedCount   int                        `json:"matched_count"`
	UnmatchedCount int                        `json:"unmatched_count"`
	TotalCount     int                        `json:"total_count"`
	RawTextPreview string                     `json:"raw_text_preview"`
}

// Pipeline is a pure, single-pass transformation: no side effects, safe to
// call concurrently as long as the mapping table snapshot is not mutated.
type Pipeline struct {
	parser   *parser.Parser
	resolver *merchant.Resolver
	logger   *log.Logger

	// MinTextChars is the shortest acceptable PDF-derived text.
	MinTextChars int
	// PreviewChars bounds the raw-text preview in results.
	PreviewChars int
}

// New creates a Pipeline with default limits.
func New(p *parser.Parser, r *merchant.Resolver, logger *log.Logger) *Pipeline {
	return &Pipeline{
		parser:       p,
		resolver:     r,
		logger:       logger,
		MinTextChars: 50,
		PreviewChars: 500,
	}
}

// ParseFile routes a statement by filename extension and parses it. PDF
// uploads must arrive as pre-extracted plain text; text extraction from the
// PDF binary itself is an upstream concern.
func (pl *Pipeline) ParseFile(data []byte, filename, accountID string, mappings []models.MerchantMapping) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return pl.ParseText(string(data), accountID, mappings), nil
	case ".pdf":
		text := string(data)
		if len(strings.TrimSpace(text)) < pl.MinTextChars {
			return nil, fmt.Errorf("%w: got %d characters, the PDF may be image-only", ErrStatementTooShort, len(strings.TrimSpace(text)))
		}
		return pl.ParseText(text, accountID, mappings), nil
	case ".xls":
		return pl.ParseXLS(data, accountID, mappings)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ParseText runs statement text through the detected parsing path.
func (pl *Pipeline) ParseText(text, accountID string, mappings []models.MerchantMapping) *Result {
	lines, skipped := pl.parser.ExtractLines(text)
	return pl.assemble(text, lines, skipped, accountID, mappings)
}

// ParseXLS runs an XLS workbook through the row-based parsing path. The raw
// preview is rebuilt from the flattened rows; the upload itself is binary.
func (pl *Pipeline) ParseXLS(data []byte, accountID string, mappings []models.MerchantMapping) (*Result, error) {
	lines, skipped, err := pl.parser.ExtractXLS(data)
	if err != nil {
		return nil, err
	}
	return pl.assemble(rowsText(lines, skipped), lines, skipped, accountID, mappings), nil
}

// assemble turns raw lines into candidate transactions, in input order.
// Lines whose remainder holds no numeric token are dropped.
func (pl *Pipeline) assemble(text string, lines []parser.RawLine, skipped []parser.SkippedLine, accountID string, mappings []models.MerchantMapping) *Result {
	result := &Result{
		Skipped:        skipped,
		RawTextPreview: preview(text, pl.PreviewChars),
	}

	classify := pl.parser.Classifier()

	for _, line := range lines {
		date, ok := parser.ParseDate(line.DateText)
		if !ok {
			// Extraction already vetted the date token; treat as dropped.
			result.Skipped = append(result.Skipped, parser.SkippedLine{LineNumber: line.LineNumber, Reason: parser.SkipNoDate, Text: line.Remainder})
			continue
		}

		amount, ok := classify(line.Remainder)
		if !ok {
			pl.logger.Debug("no numeric token in remainder, skipping", "line", line.LineNumber)
			result.Skipped = append(result.Skipped, parser.SkippedLine{LineNumber: line.LineNumber, Reason: parser.SkipNoAmount, Text: line.Remainder})
			continue
		}

		isoDate := parser.FormatDate(date)
		resolution := pl.resolver.Resolve(amount.Description, mappings)

		tx := models.ParsedTransaction{
			ID:                models.NewCandidateID(),
			Date:              isoDate,
			Description:       amount.Description,
			Amount:            amount.Value,
			Direction:         amount.Direction,
			MerchantName:      resolution.MerchantName,
			MerchantPattern:   resolution.Pattern,
			SuggestedCategory: resolution.SuggestedCategory,
			CategoryID:        resolution.CategoryID,
			SubcategoryID:     resolution.SubcategoryID,
			AccountID:         accountID,
			Matched:           resolution.Matched,
			Selected:          true,
			LineNumber:        line.LineNumber,
		}
		if resolution.AccountID != "" {
			tx.AccountID = resolution.AccountID
		}

		result.Transactions = append(result.Transactions, tx)
		if resolution.Matched {
			result.MatchedCount++
		} else {
			result.UnmatchedCount++
		}
	}

	result.TotalCount = len(result.Transactions)
	pl.logger.Debug("parse complete", "total", result.TotalCount, "matched", result.MatchedCount, "skipped", len(result.Skipped))
	return result
}

// preview truncates text to at most limit bytes on a rune boundary.
func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// rowsText rebuilds readable statement text from extracted rows, in input
// order, for previews when the upload is not text.
func rowsText(lines []parser.RawLine, skipped []parser.SkippedLine) string {
	type row struct {
		lineNo int
		text   string
	}
	rows := make([]row, 0, len(lines)+len(skipped))
	for _, l := range lines {
		rows = append(rows, row{l.LineNumber, l.DateText + " " + l.Remainder})
	}
	for _, s := range skipped {
		rows = append(rows, row{s.LineNumber, s.Text})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].lineNo < rows[j].lineNo })

	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = r.text
	}
	return strings.Join(parts, "\n")
}
