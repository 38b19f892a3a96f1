package csv

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ingest/pkg/models"
)

func TestCreate(t *testing.T) {
	txs := []models.ParsedTransaction{
		{Date: "2024-02-01", Description: "SPINNEYS HAZMIEH", MerchantName: "Spinneys", Amount: decimal.NewFromInt(45000), Direction: models.Debit, Matched: true},
		{Date: "2024-02-02", Description: "SALARY", MerchantName: "SALARY", Amount: decimal.NewFromInt(3000), Direction: models.Credit},
	}

	out := string(Create(txs, nil))
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Description,Merchant,Amount,Direction,Matched" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "2024-02-01,SPINNEYS HAZMIEH,Spinneys,45000,debit,yes" {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if lines[2] != "2024-02-02,SALARY,SALARY,3000,credit,no" {
		t.Errorf("unexpected row: %s", lines[2])
	}
}

func TestCreateWithFilter(t *testing.T) {
	txs := []models.ParsedTransaction{
		{Date: "2024-02-01", Description: "KEEP", Amount: decimal.NewFromInt(1), Direction: models.Debit, Selected: true},
		{Date: "2024-02-02", Description: "DROP", Amount: decimal.NewFromInt(2), Direction: models.Debit},
	}

	out := string(Create(txs, func(tx models.ParsedTransaction) bool { return tx.Selected }))

	if !strings.Contains(out, "KEEP") || strings.Contains(out, "DROP") {
		t.Errorf("filter not applied:\n%s", out)
	}
}
