// Package importer commits reviewed candidate transactions into the ledger.
// The commit loop is partial-failure tolerant: one bad row is logged and
// skipped, never aborting the batch.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ingest/pkg/models"
	"github.com/ledgerkeep/ingest/pkg/store"
)

// Candidate is one reviewed transaction in a commit request.
type Candidate struct {
	Date                string           `json:"date"`
	Amount              decimal.Decimal  `json:"amount"`
	Description         string           `json:"description"`
	Direction           models.Direction `json:"direction,omitempty"`
	AccountID           string           `json:"account_id"`
	CategoryID          string           `json:"category_id,omitempty"`
	SubcategoryID       string           `json:"subcategory_id,omitempty"`
	SaveMerchantMapping bool             `json:"save_merchant_mapping,omitempty"`
	MerchantPattern     string           `json:"merchant_pattern,omitempty"`
	MerchantName        string           `json:"merchant_name,omitempty"`
	Matched             bool             `json:"matched,omitempty"`
}

// Request is a commit request: the selected candidates plus the file they
// came from. Deselected candidates are simply absent and leave no trace.
type Request struct {
	Transactions []Candidate `json:"transactions"`
	FileName     string      `json:"file_name"`
}

// Summary reports what a commit actually did. Row failures show up only
// here; the batch record itself always completes.
type Summary struct {
	ImportedCount int      `json:"imported_count"`
	MappingsSaved int      `json:"merchant_mappings_saved"`
	Errors        []string `json:"errors,omitempty"`
}

// Committer persists accepted candidates through the repository boundary.
type Committer struct {
	store  store.Store
	logger *log.Logger
}

// New creates a Committer.
func New(st store.Store, logger *log.Logger) *Committer {
	return &Committer{store: st, logger: logger}
}

// Commit inserts each candidate individually, upserts confirmed merchant
// mappings deduplicated by pattern (last write wins within the batch), and
// bumps the use count once per distinct matched pattern. The batch record is
// marked completed when the row loop finishes regardless of row failures.
// The loop checks ctx between rows; on cancellation partial work stands.
func (c *Committer) Commit(ctx context.Context, userID string, req Request) (*Summary, error) {
	batch := models.ImportBatch{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   req.FileName,
		Status:     models.BatchProcessing,
		ImportedAt: time.Now().UTC(),
	}
	if err := c.store.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create import batch: %w", err)
	}

	summary := &Summary{}
	pendingMappings := make(map[string]models.MerchantMapping)
	var mappingOrder []string
	matchedPatterns := make(map[string]bool)

	var cancelled error
	for i, cand := range req.Transactions {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}

		if err := c.insertCandidate(ctx, userID, batch.ID, cand); err != nil {
			c.logger.Warn("failed to import transaction, skipping", "row", i, "description", cand.Description, "err", err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", i, err))
			continue
		}
		summary.ImportedCount++

		pattern := strings.ToLower(strings.TrimSpace(cand.MerchantPattern))
		if pattern == "" {
			continue
		}
		if cand.Matched {
			matchedPatterns[pattern] = true
		}
		if cand.SaveMerchantMapping {
			if _, ok := pendingMappings[pattern]; !ok {
				mappingOrder = append(mappingOrder, pattern)
			}
			pendingMappings[pattern] = models.MerchantMapping{
				Pattern:       cand.MerchantPattern,
				DisplayName:   cand.MerchantName,
				CategoryID:    cand.CategoryID,
				SubcategoryID: cand.SubcategoryID,
				AccountID:     cand.AccountID,
			}
		}
	}

	// Mapping writes are best-effort enrichment, never the critical path.
	for _, pattern := range mappingOrder {
		if err := c.store.UpsertMapping(ctx, userID, pendingMappings[pattern]); err != nil {
			c.logger.Warn("failed to save merchant mapping", "pattern", pattern, "err", err)
			continue
		}
		summary.MappingsSaved++
	}
	for pattern := range matchedPatterns {
		if err := c.store.IncrementMappingUse(ctx, userID, pattern); err != nil {
			c.logger.Debug("failed to bump mapping use count", "pattern", pattern, "err", err)
		}
	}

	if err := c.store.UpdateBatchStatus(ctx, batch.ID, models.BatchCompleted, summary.ImportedCount); err != nil {
		c.logger.Warn("failed to finalize import batch", "batch", batch.ID, "err", err)
	}

	if cancelled != nil {
		return summary, cancelled
	}
	return summary, nil
}

func (c *Committer) insertCandidate(ctx context.Context, userID, batchID string, cand Candidate) error {
	if !cand.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", cand.Amount)
	}
	if strings.TrimSpace(cand.Date) == "" {
		return fmt.Errorf("date is required")
	}
	if strings.TrimSpace(cand.AccountID) == "" {
		return fmt.Errorf("account_id is required")
	}

	direction := cand.Direction
	if direction == "" {
		direction = models.Debit
	}

	return c.store.InsertTransaction(ctx, store.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		BatchID:       batchID,
		Date:          cand.Date,
		Description:   cand.Description,
		Amount:        cand.Amount,
		Direction:     direction,
		MerchantName:  cand.MerchantName,
		CategoryID:    cand.CategoryID,
		SubcategoryID: cand.SubcategoryID,
		AccountID:     cand.AccountID,
		CreatedAt:     time.Now().UTC(),
	})
}
