// Package reconerror defines the error types raised while reconciling a
// ledger with provider data. Every type supports errors.As and, where it
// wraps a cause, errors.Is through Unwrap.
package reconerror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyLedger means the ledger held no rows or no dated rows, so
	// there is no baseline to reconcile against.
	ErrEmptyLedger = errors.New("ledger is empty")

	// ErrEmptyResult means the merge produced no rows at all.
	ErrEmptyResult = errors.New("merged transaction list is empty")
)

// ParseError is a ledger cell that could not be decoded.
type ParseError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
		e.Source, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a column layout that does not match the transaction
// record: a ledger header with unknown columns, or an output column list
// that differs from the record's fields.
type SchemaError struct {
	Context  string
	Expected int
	Actual   int
	Unknown  []string
	Missing  []string
}

func (e *SchemaError) Error() string {
	if len(e.Unknown) > 0 {
		return fmt.Sprintf("schema mismatch in %s: unknown columns [%s]",
			e.Context, strings.Join(e.Unknown, ", "))
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema mismatch in %s: missing columns [%s]",
			e.Context, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("schema mismatch in %s: expected %d columns, got %d",
		e.Context, e.Expected, e.Actual)
}

// UnresolvedAccountError is raised when a fetched transaction references an
// account id that the provider's account list does not contain.
type UnresolvedAccountError struct {
	TransactionID string
	AccountID     string
}

func (e *UnresolvedAccountError) Error() string {
	return fmt.Sprintf("transaction %s references unknown account %s",
		e.TransactionID, e.AccountID)
}

// FetchError wraps a failure of the remote provider.
type FetchError struct {
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %s failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
