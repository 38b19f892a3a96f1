package parser

// SkipReason names why a line was dropped during extraction or assembly.
// Skipping is deliberate lossy-but-safe policy, not an error, but the reason
// is kept so callers (and tests) can see why a line produced no transaction.
type SkipReason string

const (
	SkipNoDate         SkipReason = "no_date"
	SkipHeader         SkipReason = "header"
	SkipEmptyRemainder SkipReason = "empty_remainder"
	SkipNoAmount       SkipReason = "no_amount"
)

// SkippedLine records one dropped input line.
type SkippedLine struct {
	LineNumber int        `json:"line_number"`
	Reason     SkipReason `json:"reason"`
	Text       string     `json:"text"`
}
