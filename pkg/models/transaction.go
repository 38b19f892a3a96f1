package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether money left or entered the account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// ParsedTransaction is a candidate transaction produced by the ingestion
// pipeline. Candidates live only between parse and the human-confirmed
// commit (or discard) and are never persisted as-is.
type ParsedTransaction struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"` // ISO format YYYY-MM-DD
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    Direction       `json:"direction"`
	MerchantName string          `json:"merchant_name,omitempty"`
	// MerchantPattern references the mapping or catalogue entry that
	// matched, by pattern. Commit echoes it back to drive use counts.
	MerchantPattern   string `json:"merchant_pattern,omitempty"`
	SuggestedCategory string `json:"suggested_category,omitempty"`
	CategoryID        string `json:"category_id,omitempty"`
	SubcategoryID     string `json:"subcategory_id,omitempty"`
	AccountID         string `json:"account_id,omitempty"`
	Matched           bool   `json:"matched"`
	Selected          bool   `json:"selected"`
	LineNumber        int    `json:"line_number"`
}

// NewCandidateID returns a fresh ephemeral identifier for a candidate.
func NewCandidateID() string {
	return uuid.NewString()
}
