package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/reconerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "accounts": [
    {"account_id": "acc_chk", "name": "Checking", "mask": "0042", "type": "depository", "subtype": "checking"},
    {"account_id": "acc_biz", "name": "Business", "mask": "7550", "type": "depository", "subtype": "checking"}
  ],
  "transactions": [
    {
      "transaction_id": "tx_1", "account_id": "acc_chk", "date": "2024-03-05",
      "name": "BOOKSTORE", "amount": 18.99, "category": ["Shops", "Bookstores"],
      "transaction_type": "place", "pending": false,
      "location": {"address": "1 Main St", "city": "Springfield", "region": "IL", "postal_code": "62701", "country": "US"}
    },
    {
      "transaction_id": "tx_2", "account_id": "acc_chk", "date": "2024-03-06",
      "name": "PAYROLL", "amount": -2500, "category": null, "pending": true, "location": null
    },
    {
      "transaction_id": "tx_3", "account_id": "acc_biz", "date": "2024-03-07",
      "name": "CAFE", "amount": "4.10", "location": {"city": null, "region": "TX"}
    },
    {
      "transaction_id": "tx_old", "account_id": "acc_chk", "date": "2024-02-01",
      "name": "OLD", "amount": 1
    }
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFixtureFetcher_Fetch(t *testing.T) {
	f, err := NewFixtureFetcher(writeFixture(t, fixtureJSON), logging.NewMockLogger())
	require.NoError(t, err)

	result, err := f.Fetch(context.Background(), Window{Start: date(2024, 3, 1), End: date(2024, 3, 31), Count: 500})
	require.NoError(t, err)

	require.Len(t, result.Accounts, 2)
	assert.Equal(t, models.ProviderAccount{AccountID: "acc_chk", Name: "Checking", Mask: "0042", Type: "depository", Subtype: "checking"}, result.Accounts[0])

	require.Len(t, result.Transactions, 3)
	assert.Equal(t, 3, result.TotalTransactions)

	first := result.Transactions[0]
	assert.Equal(t, "tx_1", first.TransactionID)
	assert.Equal(t, date(2024, 3, 5), first.Date)
	assert.Equal(t, "18.99", first.Amount.StringFixed(2))
	assert.Equal(t, []string{"Shops", "Bookstores"}, first.Category)
	require.NotNil(t, first.Location)
	assert.Equal(t, "IL", first.Location.State)
	assert.Equal(t, "62701", first.Location.Zip)

	second := result.Transactions[1]
	assert.Nil(t, second.Location)
	assert.Empty(t, second.Category)
	assert.True(t, second.Pending)
	assert.Equal(t, "-2500.00", second.Amount.StringFixed(2))

	third := result.Transactions[2]
	require.NotNil(t, third.Location)
	assert.Equal(t, "", third.Location.City)
	assert.Equal(t, "TX", third.Location.State)
}

func TestFixtureFetcher_CountCeiling(t *testing.T) {
	logger := logging.NewMockLogger()
	f, err := NewFixtureFetcher(writeFixture(t, fixtureJSON), logger)
	require.NoError(t, err)

	result, err := f.Fetch(context.Background(), Window{Start: date(2024, 3, 1), End: date(2024, 3, 31), Count: 2})
	require.NoError(t, err)

	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, 3, result.TotalTransactions)
	assert.Len(t, logger.EntriesByLevel("WARN"), 1)
}

func TestFixtureFetcher_Errors(t *testing.T) {
	_, err := NewFixtureFetcher("", nil)
	assert.Error(t, err)

	w := Window{Start: date(2024, 3, 1), End: date(2024, 3, 31), Count: 10}

	f, err := NewFixtureFetcher(filepath.Join(t.TempDir(), "missing.json"), logging.NewMockLogger())
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), w)
	var fetchErr *reconerror.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, FixtureName, fetchErr.Provider)
	assert.ErrorIs(t, err, os.ErrNotExist)

	f, err = NewFixtureFetcher(writeFixture(t, "{not json"), logging.NewMockLogger())
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), w)
	assert.True(t, errors.As(err, &fetchErr))

	f, err = NewFixtureFetcher(writeFixture(t, `{"transactions":[{"transaction_id":"x","date":"soon","amount":1}]}`), logging.NewMockLogger())
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), w)
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), Window{})
	assert.Error(t, err)
}
