// Package common holds the output adapters shared by the commands.
package common

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/ledger-sync/internal/fileutils"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/reconerror"

	"github.com/gocarina/gocsv"
)

// ValidateColumns checks an output column list against the transaction
// record: same length as the record and only known, distinct fields.
func ValidateColumns(columns []string) error {
	var unknown []string
	seen := map[string]bool{}
	for _, col := range columns {
		if !models.IsField(col) || seen[col] {
			unknown = append(unknown, col)
		}
		seen[col] = true
	}
	if len(unknown) > 0 {
		return &reconerror.SchemaError{Context: "output columns", Unknown: unknown}
	}
	if len(columns) != models.FieldCount {
		return &reconerror.SchemaError{
			Context:  "output columns",
			Expected: models.FieldCount,
			Actual:   len(columns),
		}
	}
	return nil
}

// CSVWriter writes transactions as a delimited file with a fixed header.
type CSVWriter struct {
	Path      string
	Delimiter rune
	Columns   []string
	logger    logging.Logger
}

// NewCSVWriter creates a CSVWriter. Empty columns means the record's field
// order; a zero delimiter means comma. The column list is validated here so
// a bad layout fails before any work is done.
func NewCSVWriter(path string, delimiter rune, columns []string, logger logging.Logger) (*CSVWriter, error) {
	if len(columns) == 0 {
		columns = models.Fields()
	}
	if err := ValidateColumns(columns); err != nil {
		return nil, err
	}
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVWriter{Path: path, Delimiter: delimiter, Columns: columns, logger: logger}, nil
}

// Encode writes the header and one row per transaction to out.
func (w *CSVWriter) Encode(out io.Writer, transactions []models.Transaction) error {
	if err := ValidateColumns(w.Columns); err != nil {
		return err
	}

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.Delimiter
	safe := gocsv.NewSafeCSVWriter(csvWriter)

	if err := safe.Write(w.Columns); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, tx := range transactions {
		values, err := tx.Values(w.Columns)
		if err != nil {
			return err
		}
		if err := safe.Write(values); err != nil {
			return fmt.Errorf("error writing CSV row for %s: %w", tx.TransactionID, err)
		}
	}
	safe.Flush()
	if err := safe.Error(); err != nil {
		return fmt.Errorf("error flushing CSV data: %w", err)
	}
	return nil
}

// Write replaces the file at w.Path with transactions. Data goes to a
// temporary file in the same directory that is renamed into place, so a
// failed write leaves any previous output untouched.
func (w *CSVWriter) Write(ctx context.Context, transactions []models.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.logger.Info("Writing transactions to CSV file",
		logging.F(logging.FieldFile, w.Path),
		logging.F(logging.FieldCount, len(transactions)),
		logging.F(logging.FieldDelimiter, string(w.Delimiter)))

	err := fileutils.WriteAtomic(w.Path, 0644, func(out io.Writer) error {
		return w.Encode(out, transactions)
	})
	if err != nil {
		return fmt.Errorf("error writing CSV file %s: %w", w.Path, err)
	}

	w.logger.Info("Successfully wrote transactions to CSV file",
		logging.F(logging.FieldFile, w.Path),
		logging.F(logging.FieldCount, len(transactions)))
	return nil
}
