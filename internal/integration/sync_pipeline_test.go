package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/ledger-sync/internal/batch"
	"fjacquet/ledger-sync/internal/config"
	"fjacquet/ledger-sync/internal/container"
	"fjacquet/ledger-sync/internal/ledger"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const fixtureJSON = `{
  "accounts": [
    {"account_id": "acc_chk", "name": "Checking", "mask": "0042", "type": "depository", "subtype": "checking"},
    {"account_id": "acc_biz", "name": "Business", "mask": "7550", "type": "depository", "subtype": "checking"}
  ],
  "transactions": [
    {"transaction_id": "tx_2", "account_id": "acc_chk", "date": "2024-03-02", "name": "GROCER", "amount": 40},
    {"transaction_id": "tx_3", "account_id": "acc_chk", "date": "2024-03-03", "name": "GROCER", "amount": 22.10,
     "category": ["Shops", "Supermarkets and Groceries"], "transaction_type": "place",
     "location": {"city": "Springfield", "region": "IL", "postal_code": "62701", "country": "US"}},
    {"transaction_id": "tx_4", "account_id": "acc_biz", "date": "2024-03-03", "name": "SUPPLIES", "amount": 99},
    {"transaction_id": "tx_5", "account_id": "acc_chk", "date": "2024-03-04", "name": "NEW PLACE", "amount": 7, "pending": true}
  ]
}`

func writeLedgerWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	_, err := f.NewSheet(ledger.DefaultSheet)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(ledger.DefaultSheet, "A1",
		&[]interface{}{"date", "description", "amount", "transaction_id", "category", "bank_account_number"}))
	require.NoError(t, f.SetSheetRow(ledger.DefaultSheet, "A2",
		&[]interface{}{"2024-03-01", "GROCER", "12.00", "tx_1", "Groceries", "0042"}))
	require.NoError(t, f.SetSheetRow(ledger.DefaultSheet, "A3",
		&[]interface{}{"2024-03-02", "GROCER", "40.00", "tx_2", "Groceries", "0042"}))
	require.NoError(t, f.SaveAs(path))
}

func newConfig(dir string) *config.Config {
	return &config.Config{
		Log: config.LogConfig{Level: "info", Format: "text"},
		Ledger: config.LedgerConfig{
			Source:    config.SourceXLSX,
			Path:      filepath.Join(dir, "Money Master.xlsx"),
			Sheet:     ledger.DefaultSheet,
			Delimiter: ",",
		},
		Provider: config.ProviderConfig{
			Name:        config.ProviderFixture,
			FixturePath: filepath.Join(dir, "plaid.json"),
			Count:       500,
		},
		Accounts: config.AccountsConfig{
			Names:         map[string]string{"0042": "Joint Checking"},
			NamesFile:     filepath.Join(dir, "accounts.yaml"),
			ExcludedMasks: []string{"7550"},
		},
		Categorization: config.CategorizationConfig{CaseSensitive: true, IncludeLedger: true},
		Output: config.OutputConfig{
			Path:      filepath.Join(dir, "raw_data.csv"),
			Delimiter: ",",
			Columns:   models.Fields(),
		},
	}
}

// TestSyncPipeline_EndToEnd runs the workbook ledger through a full sync and
// then feeds the produced CSV back in as the ledger for a second run.
func TestSyncPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := newConfig(dir)
	writeLedgerWorkbook(t, cfg.Ledger.Path)
	require.NoError(t, os.WriteFile(cfg.Provider.FixturePath, []byte(fixtureJSON), 0600))

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	res, err := c.GetDriver().Run(context.Background(), batch.RunOptions{Start: &start, End: &end})
	require.NoError(t, err)

	s := res.Summary
	assert.Equal(t, 2, s.Merge.Existing)
	assert.Equal(t, 4, s.Merge.Fetched)
	assert.Equal(t, 1, s.Merge.Duplicates)
	assert.Equal(t, 1, s.Merge.Excluded)
	assert.Equal(t, 2, s.Merge.Appended)
	assert.Equal(t, 4, s.Total)

	require.Len(t, res.Transactions, 4)
	tx3 := res.Transactions[2]
	assert.Equal(t, "tx_3", tx3.TransactionID)
	assert.Equal(t, "Groceries", tx3.Category)
	assert.Equal(t, "Joint Checking", tx3.AccountName)
	assert.Equal(t, "Shops, Supermarkets and Groceries", tx3.PlaidCategory)
	assert.Equal(t, "Springfield", tx3.City)

	tx5 := res.Transactions[3]
	assert.Equal(t, "tx_5", tx5.TransactionID)
	assert.False(t, tx5.HasCategory())

	// Second pass: the written CSV becomes the ledger.
	cfg2 := newConfig(dir)
	cfg2.Ledger = config.LedgerConfig{Source: config.SourceCSV, Path: cfg.Output.Path, Delimiter: ","}
	cfg2.Output.Path = filepath.Join(dir, "second.csv")
	c2, err := container.NewContainerWithLogger(cfg2, logging.NewMockLogger())
	require.NoError(t, err)

	res2, err := c2.GetDriver().Run(context.Background(), batch.RunOptions{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Summary.Merge.Appended)
	assert.Equal(t, 4, res2.Summary.Total)

	first, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	second, err := os.ReadFile(cfg2.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

// TestSyncPipeline_UpToDate checks that a ledger already covering today
// skips the provider call entirely.
func TestSyncPipeline_UpToDate(t *testing.T) {
	dir := t.TempDir()
	cfg := newConfig(dir)
	writeLedgerWorkbook(t, cfg.Ledger.Path)
	cfg.Provider.FixturePath = filepath.Join(dir, "does-not-exist.json")

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	end := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	res, err := c.GetDriver().Run(context.Background(), batch.RunOptions{End: &end, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.Summary.FetchSkipped)
	assert.Equal(t, 2, res.Summary.Total)
}
