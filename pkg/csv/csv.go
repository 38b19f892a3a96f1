// Package csv renders candidate transactions as CSV for download or
// spreadsheet review.
package csv

import (
	"bytes"
	"encoding/csv"

	"github.com/ledgerkeep/ingest/pkg/models"
)

// FilterFunc selects which candidates to include.
type FilterFunc func(models.ParsedTransaction) bool

// Create renders candidates as CSV. A nil filter includes everything.
func Create(txs []models.ParsedTransaction, filter FilterFunc) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Date", "Description", "Merchant", "Amount", "Direction", "Matched"})
	for _, tx := range txs {
		if filter != nil && !filter(tx) {
			continue
		}
		matched := "no"
		if tx.Matched {
			matched = "yes"
		}
		_ = w.Write([]string{
			tx.Date,
			tx.Description,
			tx.MerchantName,
			tx.Amount.String(),
			string(tx.Direction),
			matched,
		})
	}
	w.Flush()
	return buf.Bytes()
}
