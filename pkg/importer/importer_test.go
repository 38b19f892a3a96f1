package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkeep/ingest/pkg/models"
	"github.com/ledgerkeep/ingest/pkg/store"
	"github.com/ledgerkeep/ingest/pkg/store/inmemory"
)

// failingStore wraps the in-memory store and fails inserts whose
// description matches, to exercise partial-failure tolerance.
type failingStore struct {
	*inmemory.Store
	failDescription string
}

func (f *failingStore) InsertTransaction(ctx context.Context, tx store.Transaction) error {
	if tx.Description == f.failDescription {
		return fmt.Errorf("simulated insert failure")
	}
	return f.Store.InsertTransaction(ctx, tx)
}

func candidate(desc string, amount int64) Candidate {
	return Candidate{
		Date:        "2024-02-01",
		Amount:      decimal.NewFromInt(amount),
		Description: desc,
		AccountID:   "acc-1",
	}
}

func TestCommitImportsAllRows(t *testing.T) {
	st := inmemory.New()
	c := New(st, log.Default())

	req := Request{
		FileName:     "feb.csv",
		Transactions: []Candidate{candidate("COFFEE", 5), candidate("BOOKS", 12), candidate("MARKET", 30)},
	}

	summary, err := c.Commit(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ImportedCount)
	assert.Empty(t, summary.Errors)
	assert.Len(t, st.Transactions("user-1"), 3)

	batches, err := st.ListBatches(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, models.BatchCompleted, batches[0].Status)
	assert.Equal(t, 3, batches[0].TransactionsCount)
	assert.Equal(t, "feb.csv", batches[0].FileName)
}

func TestCommitPartialFailure(t *testing.T) {
	st := &failingStore{Store: inmemory.New(), failDescription: "BOOKS"}
	c := New(st, log.Default())

	req := Request{
		FileName:     "feb.csv",
		Transactions: []Candidate{candidate("COFFEE", 5), candidate("BOOKS", 12), candidate("MARKET", 30)},
	}

	summary, err := c.Commit(context.Background(), "user-1", req)
	require.NoError(t, err, "a failing row must not abort the batch")
	assert.Equal(t, 2, summary.ImportedCount)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 1")

	// Batch still completes; failures are visible only in the summary.
	batches, _ := st.ListBatches(context.Background(), "user-1")
	require.Len(t, batches, 1)
	assert.Equal(t, models.BatchCompleted, batches[0].Status)
	assert.Equal(t, 2, batches[0].TransactionsCount)
}

func TestCommitRejectsInvalidRowsIndividually(t *testing.T) {
	st := inmemory.New()
	c := New(st, log.Default())

	bad := candidate("ZERO", 5)
	bad.Amount = decimal.Zero
	noAccount := candidate("NOACC", 9)
	noAccount.AccountID = ""

	req := Request{
		FileName:     "feb.csv",
		Transactions: []Candidate{candidate("COFFEE", 5), bad, noAccount},
	}

	summary, err := c.Commit(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ImportedCount)
	assert.Len(t, summary.Errors, 2)
}

func TestCommitSavesMappingsDeduplicated(t *testing.T) {
	st := inmemory.New()
	c := New(st, log.Default())

	first := candidate("SPINNEYS HAZMIEH", 45000)
	first.SaveMerchantMapping = true
	first.MerchantPattern = "spinneys"
	first.MerchantName = "Spinneys"
	first.CategoryID = "cat-1"

	second := candidate("SPINNEYS DBAYEH", 30000)
	second.SaveMerchantMapping = true
	second.MerchantPattern = "Spinneys"
	second.MerchantName = "Spinneys Supermarket"
	second.CategoryID = "cat-2"

	req := Request{FileName: "feb.csv", Transactions: []Candidate{first, second}}

	summary, err := c.Commit(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ImportedCount)
	assert.Equal(t, 1, summary.MappingsSaved, "same pattern saves once")

	mappings, err := st.ListMappings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	// Last write within the batch wins.
	assert.Equal(t, "Spinneys Supermarket", mappings[0].DisplayName)
	assert.Equal(t, "cat-2", mappings[0].CategoryID)
}

func TestCommitIncrementsUseCountOncePerPattern(t *testing.T) {
	st := inmemory.New()
	ctx := context.Background()
	require.NoError(t, st.UpsertMapping(ctx, "user-1", models.MerchantMapping{Pattern: "spinneys", DisplayName: "Spinneys"}))

	c := New(st, log.Default())

	first := candidate("SPINNEYS HAZMIEH", 45000)
	first.Matched = true
	first.MerchantPattern = "spinneys"
	second := candidate("SPINNEYS DBAYEH", 30000)
	second.Matched = true
	second.MerchantPattern = "spinneys"

	req := Request{FileName: "feb.csv", Transactions: []Candidate{first, second}}

	_, err := c.Commit(ctx, "user-1", req)
	require.NoError(t, err)

	mappings, err := st.ListMappings(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, 1, mappings[0].UseCount, "use count bumps once per distinct pattern per batch")
}

func TestCommitCancellationKeepsPartialWork(t *testing.T) {
	st := inmemory.New()
	c := New(st, log.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := Request{FileName: "feb.csv", Transactions: []Candidate{candidate("COFFEE", 5)}}

	summary, err := c.Commit(ctx, "user-1", req)
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.ImportedCount)
}
