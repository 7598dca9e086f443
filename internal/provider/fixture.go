package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/reconerror"

	"github.com/shopspring/decimal"
)

// FixtureName identifies the file-backed provider.
const FixtureName = "fixture"

// fixtureFile mirrors the transactions/get response body.
type fixtureFile struct {
	Accounts          []fixtureAccount     `json:"accounts"`
	Transactions      []fixtureTransaction `json:"transactions"`
	TotalTransactions *int                 `json:"total_transactions"`
}

type fixtureAccount struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Mask      string `json:"mask"`
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
}

type fixtureLocation struct {
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Region     *string `json:"region"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}

type fixtureTransaction struct {
	TransactionID   string           `json:"transaction_id"`
	AccountID       string           `json:"account_id"`
	Date            string           `json:"date"`
	Name            string           `json:"name"`
	Amount          decimal.Decimal  `json:"amount"`
	Category        []string         `json:"category"`
	TransactionType string           `json:"transaction_type"`
	Location        *fixtureLocation `json:"location"`
	Pending         bool             `json:"pending"`
}

// FixtureFetcher serves provider data from a JSON file shaped like a
// transactions/get response. Transactions outside the window are dropped and
// the count ceiling is applied after filtering.
type FixtureFetcher struct {
	path   string
	logger logging.Logger
}

// NewFixtureFetcher creates a FixtureFetcher reading path.
func NewFixtureFetcher(path string, logger logging.Logger) (*FixtureFetcher, error) {
	if path == "" {
		return nil, fmt.Errorf("fixture provider needs a fixture path")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &FixtureFetcher{path: path, logger: logger}, nil
}

// Name returns the provider name.
func (f *FixtureFetcher) Name() string {
	return FixtureName
}

// Fetch reads the fixture and returns the transactions within w.
func (f *FixtureFetcher) Fetch(ctx context.Context, w Window) (*models.FetchResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &reconerror.FetchError{Provider: FixtureName, Err: err}
	}
	var file fixtureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &reconerror.FetchError{Provider: FixtureName, Err: fmt.Errorf("decode %s: %w", f.path, err)}
	}

	result := &models.FetchResult{}
	for _, a := range file.Accounts {
		result.Accounts = append(result.Accounts, models.ProviderAccount(a))
	}

	var inWindow []models.ProviderTransaction
	for _, tx := range file.Transactions {
		ptx, err := tx.convert()
		if err != nil {
			return nil, &reconerror.FetchError{Provider: FixtureName, Err: err}
		}
		if ptx.Date.Before(w.Start) || ptx.Date.After(w.End) {
			continue
		}
		inWindow = append(inWindow, ptx)
	}

	result.TotalTransactions = len(inWindow)
	if file.TotalTransactions != nil {
		result.TotalTransactions = *file.TotalTransactions
	}
	if len(inWindow) > w.Count {
		inWindow = inWindow[:w.Count]
	}
	result.Transactions = inWindow

	f.logger.Info("Loaded fixture transactions",
		logging.F(logging.FieldFile, f.path),
		logging.F(logging.FieldCount, len(result.Transactions)))

	warnIfTruncated(f.logger, FixtureName, w, result)
	return result, nil
}

func (tx fixtureTransaction) convert() (models.ProviderTransaction, error) {
	date, _, err := dateutils.ParseDate(tx.Date)
	if err != nil {
		return models.ProviderTransaction{}, fmt.Errorf("transaction %s: %w", tx.TransactionID, err)
	}
	ptx := models.ProviderTransaction{
		TransactionID:   tx.TransactionID,
		AccountID:       tx.AccountID,
		Date:            date,
		Name:            tx.Name,
		Amount:          tx.Amount,
		Category:        tx.Category,
		TransactionType: tx.TransactionType,
		Pending:         tx.Pending,
	}
	if tx.Location != nil {
		ptx.Location = &models.Location{
			Address: deref(tx.Location.Address),
			City:    deref(tx.Location.City),
			State:   deref(tx.Location.Region),
			Zip:     deref(tx.Location.PostalCode),
			Country: deref(tx.Location.Country),
		}
	}
	return ptx, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
