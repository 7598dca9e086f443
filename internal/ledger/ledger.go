// Package ledger loads the existing transaction ledger from a tabular
// source (CSV file, Excel workbook or Google Sheet) and decodes it into
// transaction records.
package ledger

import (
	"context"
	"strings"
	"time"

	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/reconerror"
)

// RequiredColumns must be present in every ledger header.
var RequiredColumns = []string{
	models.FieldDate,
	models.FieldDescription,
	models.FieldTransactionID,
	models.FieldCategory,
}

// Table is a raw ledger: a header row and the data rows below it. Rows may
// be shorter than the header; missing cells are empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source loads a ledger table.
type Source interface {
	Load(ctx context.Context) (*Table, error)
	Name() string
}

// Decode maps each table row onto a transaction by header name. Columns
// that are not transaction fields fail with a SchemaError, as does a header
// missing a required column. Blank rows are skipped. A cell that cannot be
// decoded fails with a ParseError carrying its 1-based sheet row.
func Decode(source string, table *Table) ([]models.Transaction, error) {
	if table == nil || len(table.Header) == 0 {
		return nil, reconerror.ErrEmptyLedger
	}

	header := make([]string, len(table.Header))
	present := map[string]bool{}
	var unknown []string
	for i, col := range table.Header {
		col = strings.TrimSpace(col)
		header[i] = col
		if col == "" {
			continue
		}
		if !models.IsField(col) {
			unknown = append(unknown, col)
			continue
		}
		present[col] = true
	}
	if len(unknown) > 0 {
		return nil, &reconerror.SchemaError{Context: source + " header", Unknown: unknown}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &reconerror.SchemaError{Context: source + " header", Missing: missing}
	}

	txs := make([]models.Transaction, 0, len(table.Rows))
	for r, row := range table.Rows {
		if isBlank(row) {
			continue
		}
		var tx models.Transaction
		for i, col := range header {
			if col == "" || i >= len(row) {
				continue
			}
			if err := tx.Set(col, row[i]); err != nil {
				return nil, &reconerror.ParseError{
					Source: source,
					Row:    r + 2,
					Field:  col,
					Value:  row[i],
					Err:    err,
				}
			}
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// LatestDate returns the most recent transaction date in txs. ok is false
// when no row carries a date.
func LatestDate(txs []models.Transaction) (latest time.Time, ok bool) {
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		if !ok || tx.Date.After(latest) {
			latest = tx.Date
			ok = true
		}
	}
	return latest, ok
}

// Load reads and decodes src.
func Load(ctx context.Context, src Source) ([]models.Transaction, error) {
	table, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(src.Name(), table)
}
