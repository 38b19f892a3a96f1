package models

import "time"

// BatchStatus is the lifecycle state of an import batch. Progression is
// pending -> processing -> completed|failed and never moves backwards.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// ImportBatch groups one file-upload-to-commit unit of work for audit.
// It aggregates the count of committed transactions but does not own them
// after commit.
type ImportBatch struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	FileName          string      `json:"file_name"`
	TransactionsCount int         `json:"transactions_count"`
	Status            BatchStatus `json:"status"`
	ImportedAt        time.Time   `json:"imported_at"`
}
