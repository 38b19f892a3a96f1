package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ingest/pkg/models"
)

// Amount is the classified monetary part of a raw line: the value, which way
// the money moved, and the remainder with the numeric tokens stripped out.
type Amount struct {
	Value       decimal.Decimal
	Direction   models.Direction
	Description string
}

// ClassifierFunc extracts the amount and direction from a line remainder.
// The default implementation below is bank-agnostic; bank templates with
// unusual column layouts can supply their own via Parser.WithClassifier.
type ClassifierFunc func(remainder string) (Amount, bool)

// numericToken matches a positive decimal number with optional
// comma-as-thousands separators, e.g. "45,000" or "1,234.56" or "5.50".
var numericToken = regexp.MustCompile(`^\d{1,3}(?:,\d{3})*(?:\.\d+)?$|^\d+(?:\.\d+)?$`)

// ClassifyAmount applies the default heuristic: the first positive numeric
// token is the amount, and the line is a credit when a case-insensitive "cr"
// token is present or a second numeric token exists (debit/credit column
// layouts put the value in the second slot). Everything else is a debit.
// Returns false when the remainder holds no numeric token at all.
func ClassifyAmount(remainder string) (Amount, bool) {
	tokens := strings.Fields(remainder)

	var values []decimal.Decimal
	var descParts []string
	hasCreditMarker := false

	for _, tok := range tokens {
		if numericToken.MatchString(tok) {
			v, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
			if err == nil && v.IsPositive() {
				values = append(values, v)
				continue
			}
		}
		switch strings.ToLower(tok) {
		case "cr":
			hasCreditMarker = true
			continue
		case "dr":
			continue
		}
		descParts = append(descParts, tok)
	}

	if len(values) == 0 {
		return Amount{}, false
	}

	direction := models.Debit
	if hasCreditMarker || len(values) >= 2 {
		direction = models.Credit
	}

	return Amount{
		Value:       values[0],
		Direction:   direction,
		Description: strings.Join(descParts, " "),
	}, true
}
