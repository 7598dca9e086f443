// Package provider fetches transactions and accounts from the banking-data
// provider for a date window.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
)

// DefaultCount is the result ceiling requested when none is configured.
// Results beyond it are not paged.
const DefaultCount = 500

// Window is an inclusive date range and a result ceiling.
type Window struct {
	Start time.Time
	End   time.Time
	Count int
}

// String formats the window as "YYYY-MM-DD..YYYY-MM-DD".
func (w Window) String() string {
	return dateutils.ToISODate(w.Start) + ".." + dateutils.ToISODate(w.End)
}

// Validate checks that the window is well formed.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("fetch window needs both start and end dates")
	}
	if w.Start.After(w.End) {
		return fmt.Errorf("fetch window start %s is after end %s",
			dateutils.ToISODate(w.Start), dateutils.ToISODate(w.End))
	}
	if w.Count <= 0 {
		return fmt.Errorf("fetch window count must be positive, got %d", w.Count)
	}
	return nil
}

// Fetcher returns provider data for a window.
type Fetcher interface {
	Fetch(ctx context.Context, w Window) (*models.FetchResult, error)
	Name() string
}

// Config selects and configures a Fetcher.
type Config struct {
	Name           string
	ClientID       string
	Secret         string
	AccessToken    string
	Environment    string
	TimeoutSeconds int
	FixturePath    string
}

// New builds the Fetcher named by cfg.Name.
func New(cfg Config, logger logging.Logger) (Fetcher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", PlaidName:
		return NewPlaidFetcher(cfg, logger)
	case FixtureName:
		return NewFixtureFetcher(cfg.FixturePath, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}

// warnIfTruncated logs when the provider holds more transactions than it
// returned.
func warnIfTruncated(logger logging.Logger, provider string, w Window, result *models.FetchResult) {
	if result.TotalTransactions > len(result.Transactions) {
		logger.Warn("Provider returned fewer transactions than available; results beyond the count ceiling are not fetched",
			logging.F(logging.FieldProvider, provider),
			logging.F(logging.FieldCount, len(result.Transactions)),
			logging.F("total_transactions", result.TotalTransactions),
			logging.F(logging.FieldStartDate, dateutils.ToISODate(w.Start)),
			logging.F(logging.FieldEndDate, dateutils.ToISODate(w.End)))
	}
}
