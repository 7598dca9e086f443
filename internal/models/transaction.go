// Package models provides the records exchanged between ledger-sync
// components: ledger transactions, provider transactions and accounts.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fjacquet/ledger-sync/internal/currencyutils"
	"fjacquet/ledger-sync/internal/dateutils"

	"github.com/shopspring/decimal"
)

// Column names of a transaction record.
const (
	FieldBankAccountNumber = "bank_account_number"
	FieldAccountName       = "account_name"
	FieldInstitutionType   = "institution_type"
	FieldAccountType       = "account_type"
	FieldAccountSubtype    = "account_subtype"
	FieldDate              = "date"
	FieldDescription       = "description"
	FieldAmount            = "amount"
	FieldPlaidCategory     = "plaid_category"
	FieldTransactionType   = "transaction_type"
	FieldAddress           = "address"
	FieldCity              = "city"
	FieldState             = "state"
	FieldZip               = "zip"
	FieldCountry           = "country"
	FieldPending           = "pending"
	FieldTransactionID     = "transaction_id"
	FieldCategory          = "category"
)

// fieldOrder is the serialization order of a transaction record.
var fieldOrder = [...]string{
	FieldBankAccountNumber,
	FieldAccountName,
	FieldInstitutionType,
	FieldAccountType,
	FieldAccountSubtype,
	FieldDate,
	FieldDescription,
	FieldAmount,
	FieldPlaidCategory,
	FieldTransactionType,
	FieldAddress,
	FieldCity,
	FieldState,
	FieldZip,
	FieldCountry,
	FieldPending,
	FieldTransactionID,
	FieldCategory,
}

// FieldCount is the number of fields in a transaction record.
const FieldCount = len(fieldOrder)

// Fields returns the record's field names in serialization order. The
// returned slice is a copy.
func Fields() []string {
	out := make([]string, FieldCount)
	copy(out, fieldOrder[:])
	return out
}

// IsField reports whether name is a transaction record field.
func IsField(name string) bool {
	for _, f := range fieldOrder {
		if f == name {
			return true
		}
	}
	return false
}

// Transaction is one ledger row. Text fields use "" for null, Date uses the
// zero time.
type Transaction struct {
	BankAccountNumber string
	AccountName       string
	InstitutionType   string
	AccountType       string
	AccountSubtype    string
	Date              time.Time
	Description       string
	Amount            decimal.Decimal
	PlaidCategory     string
	TransactionType   string
	Address           string
	City              string
	State             string
	Zip               string
	Country           string
	Pending           bool
	TransactionID     string
	Category          string

	// cells holds the text a ledger row was decoded from for the fields
	// whose typed form does not reproduce it (amount scale, date layout,
	// empty pending).
	cells map[string]string
}

// HasCategory reports whether the row carries a non-empty category.
func (t Transaction) HasCategory() bool {
	return strings.TrimSpace(t.Category) != ""
}

// Value returns the serialized form of field. ok is false for unknown fields.
func (t Transaction) Value(field string) (value string, ok bool) {
	switch field {
	case FieldBankAccountNumber:
		return t.BankAccountNumber, true
	case FieldAccountName:
		return t.AccountName, true
	case FieldInstitutionType:
		return t.InstitutionType, true
	case FieldAccountType:
		return t.AccountType, true
	case FieldAccountSubtype:
		return t.AccountSubtype, true
	case FieldDate:
		if cell, ok := t.cells[FieldDate]; ok && t.sameDate(cell) {
			return cell, true
		}
		return dateutils.ToISODate(t.Date), true
	case FieldDescription:
		return t.Description, true
	case FieldAmount:
		if cell, ok := t.cells[FieldAmount]; ok {
			if amount, err := currencyutils.ParseAmount(cell); err == nil && amount.Equal(t.Amount) {
				return cell, true
			}
		}
		return currencyutils.FormatAmount(t.Amount), true
	case FieldPlaidCategory:
		return t.PlaidCategory, true
	case FieldTransactionType:
		return t.TransactionType, true
	case FieldAddress:
		return t.Address, true
	case FieldCity:
		return t.City, true
	case FieldState:
		return t.State, true
	case FieldZip:
		return t.Zip, true
	case FieldCountry:
		return t.Country, true
	case FieldPending:
		if cell, ok := t.cells[FieldPending]; ok {
			if cell == "" && !t.Pending {
				return cell, true
			}
			if b, err := strconv.ParseBool(cell); err == nil && b == t.Pending {
				return cell, true
			}
		}
		return strconv.FormatBool(t.Pending), true
	case FieldTransactionID:
		return t.TransactionID, true
	case FieldCategory:
		return t.Category, true
	}
	return "", false
}

func (t *Transaction) remember(field, raw string) {
	cells := make(map[string]string, len(t.cells)+1)
	for k, v := range t.cells {
		cells[k] = v
	}
	cells[field] = raw
	t.cells = cells
}

func (t Transaction) sameDate(cell string) bool {
	if cell == "" {
		return t.Date.IsZero()
	}
	d, _, err := dateutils.ParseDate(cell)
	return err == nil && dateutils.CompareDates(d, t.Date) == 0 && !t.Date.IsZero()
}

// Values returns the serialized fields in the order given by columns.
func (t Transaction) Values(columns []string) ([]string, error) {
	out := make([]string, len(columns))
	for i, col := range columns {
		v, ok := t.Value(col)
		if !ok {
			return nil, fmt.Errorf("unknown transaction field %q", col)
		}
		out[i] = v
	}
	return out, nil
}

// Set decodes raw into field. Empty values set the field to null; the
// pending flag treats empty as false. The text of date, amount and pending
// cells is kept so that Value returns it unchanged while the typed field
// still holds the decoded value.
func (t *Transaction) Set(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if err := t.set(field, raw); err != nil {
		return err
	}
	switch field {
	case FieldDate, FieldAmount, FieldPending:
		t.remember(field, raw)
	}
	return nil
}

func (t *Transaction) set(field, raw string) error {
	switch field {
	case FieldBankAccountNumber:
		t.BankAccountNumber = raw
	case FieldAccountName:
		t.AccountName = raw
	case FieldInstitutionType:
		t.InstitutionType = raw
	case FieldAccountType:
		t.AccountType = raw
	case FieldAccountSubtype:
		t.AccountSubtype = raw
	case FieldDate:
		if raw == "" {
			t.Date = time.Time{}
			return nil
		}
		d, _, err := dateutils.ParseDate(raw)
		if err != nil {
			return err
		}
		t.Date = d
	case FieldDescription:
		t.Description = raw
	case FieldAmount:
		amount, err := currencyutils.ParseAmount(raw)
		if err != nil {
			return err
		}
		t.Amount = amount
	case FieldPlaidCategory:
		t.PlaidCategory = raw
	case FieldTransactionType:
		t.TransactionType = raw
	case FieldAddress:
		t.Address = raw
	case FieldCity:
		t.City = raw
	case FieldState:
		t.State = raw
	case FieldZip:
		t.Zip = raw
	case FieldCountry:
		t.Country = raw
	case FieldPending:
		if raw == "" {
			t.Pending = false
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		t.Pending = b
	case FieldTransactionID:
		t.TransactionID = raw
	case FieldCategory:
		t.Category = raw
	default:
		return fmt.Errorf("unknown transaction field %q", field)
	}
	return nil
}
