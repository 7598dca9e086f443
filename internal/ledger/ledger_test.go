package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/reconerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableSource struct {
	table *Table
	err   error
}

func (s tableSource) Load(context.Context) (*Table, error) { return s.table, s.err }
func (s tableSource) Name() string                         { return "memory" }

func fullHeader() []string {
	return models.Fields()
}

func TestDecode_FullRow(t *testing.T) {
	table := &Table{
		Header: fullHeader(),
		Rows: [][]string{{
			"1111", "Joint Checking", "depository", "depository", "checking",
			"2024-03-01", "COFFEE SHOP", "$1,204.50", "Food and Drink, Coffee Shop", "place",
			"1 Main St", "Springfield", "IL", "62701", "US",
			"False", "tx_100", "Dining",
		}},
	}

	txs, err := Decode("memory", table)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "1111", tx.BankAccountNumber)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.True(t, decimal.RequireFromString("1204.50").Equal(tx.Amount))
	assert.Equal(t, "Food and Drink, Coffee Shop", tx.PlaidCategory)
	assert.False(t, tx.Pending)
	assert.Equal(t, "tx_100", tx.TransactionID)
	assert.Equal(t, "Dining", tx.Category)
}

func TestDecode_SubsetHeaderAndShortRows(t *testing.T) {
	table := &Table{
		Header: []string{"date", "description", "amount", "transaction_id", "category"},
		Rows: [][]string{
			{"03/02/2024", "GROCER", "52.10", "tx_1", "Groceries"},
			{"2024-03-03", "RENT", "1500"},
			{"", "", ""},
			{" ", ""},
		},
	}

	txs, err := Decode("memory", table)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "Groceries", txs[0].Category)
	assert.Equal(t, "", txs[1].TransactionID)
	assert.Equal(t, "", txs[1].Category)
	assert.Equal(t, "", txs[1].City)
}

func TestDecode_UnknownColumn(t *testing.T) {
	table := &Table{Header: append(fullHeader(), "memo")}

	_, err := Decode("memory", table)

	var schemaErr *reconerror.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"memo"}, schemaErr.Unknown)
}

func TestDecode_MissingRequiredColumn(t *testing.T) {
	table := &Table{Header: []string{"date", "description", "category"}}

	_, err := Decode("memory", table)

	var schemaErr *reconerror.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"transaction_id"}, schemaErr.Missing)
}

func TestDecode_BlankHeaderColumnIgnored(t *testing.T) {
	table := &Table{
		Header: []string{"date", "description", "transaction_id", "category", ""},
		Rows:   [][]string{{"2024-03-01", "X", "tx_1", "", "stray note"}},
	}

	txs, err := Decode("memory", table)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestDecode_ParseErrorReportsRow(t *testing.T) {
	table := &Table{
		Header: []string{"date", "description", "amount", "transaction_id", "category"},
		Rows: [][]string{
			{"2024-03-01", "OK", "1.00", "tx_1", ""},
			{"2024-03-02", "BAD", "twelve", "tx_2", ""},
		},
	}

	_, err := Decode("ledger.csv", table)

	var parseErr *reconerror.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 3, parseErr.Row)
	assert.Equal(t, "amount", parseErr.Field)
	assert.Equal(t, "twelve", parseErr.Value)
	assert.Equal(t, "ledger.csv", parseErr.Source)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode("memory", &Table{})
	assert.ErrorIs(t, err, reconerror.ErrEmptyLedger)

	_, err = Decode("memory", nil)
	assert.ErrorIs(t, err, reconerror.ErrEmptyLedger)
}

func TestLatestDate(t *testing.T) {
	txs := []models.Transaction{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{},
		{Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)},
	}

	latest, ok := LatestDate(txs)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), latest)

	_, ok = LatestDate([]models.Transaction{{}})
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	src := tableSource{table: &Table{
		Header: []string{"date", "description", "transaction_id", "category"},
		Rows:   [][]string{{"2024-03-01", "X", "tx_1", "Misc"}},
	}}
	txs, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	boom := errors.New("boom")
	_, err = Load(context.Background(), tableSource{err: boom})
	assert.ErrorIs(t, err, boom)
}
