// Package inmemory is a mutex-guarded map implementation of store.Store.
// Data is lost on restart; it backs tests and single-node deployments where
// the surrounding application has not wired a database yet.
package inmemory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ledgerkeep/ingest/pkg/models"
	"github.com/ledgerkeep/ingest/pkg/store"
)

// Store is an in-memory store.Store, safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	transactions map[string][]store.Transaction      // userID -> rows
	mappings     map[string][]models.MerchantMapping // userID -> ordered mappings
	batches      map[string][]models.ImportBatch     // userID -> batches
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		transactions: make(map[string][]store.Transaction),
		mappings:     make(map[string][]models.MerchantMapping),
		batches:      make(map[string][]models.ImportBatch),
	}
}

// InsertTransaction implements store.TransactionStore.
func (s *Store) InsertTransaction(ctx context.Context, tx store.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("transaction ID is required")
	}
	if tx.UserID == "" {
		return fmt.Errorf("user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.UserID] = append(s.transactions[tx.UserID], tx)
	return nil
}

// Transactions returns a copy of a user's committed transactions.
func (s *Store) Transactions(userID string) []store.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Transaction, len(s.transactions[userID]))
	copy(out, s.transactions[userID])
	return out
}

// ListMappings implements store.MappingStore. Mappings come back in
// insertion order so substring resolution is deterministic.
func (s *Store) ListMappings(ctx context.Context, userID string) ([]models.MerchantMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MerchantMapping, len(s.mappings[userID]))
	copy(out, s.mappings[userID])
	return out, nil
}

// UpsertMapping implements store.MappingStore, keyed on (user, pattern)
// case-insensitively. An existing mapping keeps its use count.
func (s *Store) UpsertMapping(ctx context.Context, userID string, m models.MerchantMapping) error {
	if strings.TrimSpace(m.Pattern) == "" {
		return fmt.Errorf("mapping pattern is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(m.Pattern))
	for i, existing := range s.mappings[userID] {
		if strings.ToLower(strings.TrimSpace(existing.Pattern)) == key {
			m.UseCount = existing.UseCount
			s.mappings[userID][i] = m
			return nil
		}
	}
	s.mappings[userID] = append(s.mappings[userID], m)
	return nil
}

// IncrementMappingUse implements store.MappingStore.
func (s *Store) IncrementMappingUse(ctx context.Context, userID, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(pattern))
	for i, existing := range s.mappings[userID] {
		if strings.ToLower(strings.TrimSpace(existing.Pattern)) == key {
			s.mappings[userID][i].UseCount++
			return nil
		}
	}
	return fmt.Errorf("mapping %q: %w", pattern, store.ErrNotFound)
}

// CreateBatch implements store.BatchStore.
func (s *Store) CreateBatch(ctx context.Context, batch models.ImportBatch) error {
	if batch.ID == "" {
		return fmt.Errorf("batch ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.UserID] = append(s.batches[batch.UserID], batch)
	return nil
}

// UpdateBatchStatus implements store.BatchStore.
func (s *Store) UpdateBatchStatus(ctx context.Context, batchID string, status models.BatchStatus, transactionsCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, batches := range s.batches {
		for i, b := range batches {
			if b.ID == batchID {
				s.batches[userID][i].Status = status
				s.batches[userID][i].TransactionsCount = transactionsCount
				return nil
			}
		}
	}
	return fmt.Errorf("batch %q: %w", batchID, store.ErrNotFound)
}

// ListBatches implements store.BatchStore.
func (s *Store) ListBatches(ctx context.Context, userID string) ([]models.ImportBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ImportBatch, len(s.batches[userID]))
	copy(out, s.batches[userID])
	return out, nil
}

// Ensure Store implements the full repository surface.
var _ store.Store = (*Store)(nil)
