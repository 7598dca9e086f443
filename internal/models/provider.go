package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location is the merchant location attached to a provider transaction.
type Location struct {
	Address string
	City    string
	State   string
	Zip     string
	Country string
}

// IsEmpty reports whether no location field is set.
func (l Location) IsEmpty() bool {
	return l == Location{}
}

// ProviderTransaction is a transaction as returned by the banking-data
// provider. Location is nil when the provider sent none.
type ProviderTransaction struct {
	TransactionID   string
	AccountID       string
	Date            time.Time
	Name            string
	Amount          decimal.Decimal
	Category        []string
	TransactionType string
	Location        *Location
	Pending         bool
}

// ProviderAccount is an account as returned by the provider.
type ProviderAccount struct {
	AccountID string
	Name      string
	Mask      string
	Type      string
	Subtype   string
}

// FetchResult is one page of provider data. TotalTransactions is the count
// the provider reports for the whole window, which may exceed
// len(Transactions).
type FetchResult struct {
	Transactions      []ProviderTransaction
	Accounts          []ProviderAccount
	TotalTransactions int
}
