// Package store defines the repository boundary of the ingestion pipeline.
// Persistence of transactions, mappings and batches is an external concern;
// the pipeline only talks to these interfaces.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ingest/pkg/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Transaction is a committed ledger transaction. Once written it is a
// standard ledger row owned by the surrounding application, not by the
// import batch that produced it.
type Transaction struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	BatchID       string           `json:"batch_id"`
	Date          string           `json:"date"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	Direction     models.Direction `json:"direction"`
	MerchantName  string           `json:"merchant_name,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	SubcategoryID string           `json:"subcategory_id,omitempty"`
	AccountID     string           `json:"account_id"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TransactionStore persists committed transactions.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, tx Transaction) error
}

// MappingStore persists user merchant mappings. ListMappings returns them
// in a stable order; resolution is first-found against that order.
type MappingStore interface {
	ListMappings(ctx context.Context, userID string) ([]models.MerchantMapping, error)
	UpsertMapping(ctx context.Context, userID string, m models.MerchantMapping) error
	IncrementMappingUse(ctx context.Context, userID, pattern string) error
}

// BatchStore persists import batch audit records.
type BatchStore interface {
	CreateBatch(ctx context.Context, batch models.ImportBatch) error
	UpdateBatchStatus(ctx context.Context, batchID string, status models.BatchStatus, transactionsCount int) error
	ListBatches(ctx context.Context, userID string) ([]models.ImportBatch, error)
}

// Store bundles all repositories the committer and server need.
type Store interface {
	TransactionStore
	MappingStore
	BatchStore
}
