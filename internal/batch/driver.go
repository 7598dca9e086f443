// Package batch runs one reconciliation: load the ledger, fetch what is new
// from the provider, merge, infer categories and write the result.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/ledger-sync/internal/accounts"
	"fjacquet/ledger-sync/internal/categorizer"
	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/ledger"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/provider"
	"fjacquet/ledger-sync/internal/reconcile"
	"fjacquet/ledger-sync/internal/reconerror"

	"github.com/google/uuid"
)

// Writer persists the final transaction list.
type Writer interface {
	Write(ctx context.Context, transactions []models.Transaction) error
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD", or "" when either
// end is unset.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// spanOf returns the range of dates covered by transactions.
func spanOf(transactions []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			continue
		}
		if dr.Start.IsZero() || tx.Date.Before(dr.Start) {
			dr.Start = tx.Date
		}
		if dr.End.IsZero() || tx.Date.After(dr.End) {
			dr.End = tx.Date
		}
	}
	return dr
}

// Options tune a Driver.
type Options struct {
	// Count is the provider result ceiling.
	Count int
	// CaseSensitive makes description matching exact.
	CaseSensitive bool
	// IncludeLedger also fills empty categories on existing ledger rows,
	// not only on newly appended ones.
	IncludeLedger bool
	// OutputPath is reported in the summary.
	OutputPath string
}

// RunOptions override the fetch window and suppress the write.
type RunOptions struct {
	Start  *time.Time
	End    *time.Time
	DryRun bool
}

// Summary describes a completed run.
type Summary struct {
	RunID        string
	Window       provider.Window
	FetchSkipped bool
	Fetched      int
	Available    int
	Merge        reconcile.MergeStats
	Inference    categorizer.InferenceStats
	NewRows      DateRange
	// UnmappedMasks lists fetched account masks without a display name.
	UnmappedMasks []string
	Total         int
	OutputPath    string
	DryRun        bool
}

// Result is the merged, categorized ledger and the run summary.
type Result struct {
	Transactions []models.Transaction
	Summary      Summary
}

// Deps are the collaborators of a Driver.
type Deps struct {
	Source   ledger.Source
	Fetcher  provider.Fetcher
	Resolver *accounts.Resolver
	Merger   *reconcile.Merger
	Writer   Writer
	Logger   logging.Logger
}

// Driver sequences a reconciliation run.
type Driver struct {
	deps     Deps
	opts     Options
	logger   logging.Logger
	now      func() time.Time
	newRunID func() string
}

// NewDriver creates a Driver.
func NewDriver(deps Deps, opts Options) (*Driver, error) {
	if deps.Source == nil || deps.Fetcher == nil || deps.Resolver == nil || deps.Merger == nil {
		return nil, errors.New("batch driver needs a ledger source, a fetcher, a resolver and a merger")
	}
	if opts.Count <= 0 {
		opts.Count = provider.DefaultCount
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Driver{
		deps:     deps,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		newRunID: func() string { return uuid.NewString() },
	}, nil
}

// LoadLedger loads and decodes the ledger, failing on an empty one.
func (d *Driver) LoadLedger(ctx context.Context) ([]models.Transaction, error) {
	txs, err := ledger.Load(ctx, d.deps.Source)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("loading ledger %s: %w", d.deps.Source.Name(), reconerror.ErrEmptyLedger)
	}
	return txs, nil
}

// Window computes the fetch window for ledger. The start defaults to the
// day after the latest ledger date and the end to today.
func (d *Driver) Window(existing []models.Transaction, opts RunOptions) (provider.Window, error) {
	w := provider.Window{Count: d.opts.Count}

	if opts.Start != nil {
		w.Start = dateutils.TruncateDay(*opts.Start)
	} else {
		latest, ok := ledger.LatestDate(existing)
		if !ok {
			return w, fmt.Errorf("ledger has no dated rows: %w", reconerror.ErrEmptyLedger)
		}
		w.Start = dateutils.NextDay(latest)
	}

	if opts.End != nil {
		w.End = dateutils.TruncateDay(*opts.End)
	} else {
		w.End = dateutils.TruncateDay(d.now())
	}
	return w, nil
}

// Run performs one reconciliation. Nothing is written unless every step
// succeeds, and nothing at all on a dry run.
func (d *Driver) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	runID := d.newRunID()
	logger := d.logger.WithField(logging.FieldRunID, runID)
	summary := Summary{RunID: runID, OutputPath: d.opts.OutputPath, DryRun: opts.DryRun}

	existing, err := d.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded ledger",
		logging.F(logging.FieldSource, d.deps.Source.Name()),
		logging.F(logging.FieldCount, len(existing)))

	model := categorizer.BuildFrequencyModel(existing, d.opts.CaseSensitive)
	logger.Debug("Built category frequency model", logging.F("descriptions", model.Len()))

	w, err := d.Window(existing, opts)
	if err != nil {
		return nil, err
	}
	summary.Window = w

	fetched := &models.FetchResult{}
	if dateutils.CompareDates(w.Start, w.End) > 0 {
		summary.FetchSkipped = true
		logger.Info("Ledger is already up to date; skipping fetch",
			logging.F(logging.FieldStartDate, dateutils.ToISODate(w.Start)),
			logging.F(logging.FieldEndDate, dateutils.ToISODate(w.End)))
	} else {
		fetched, err = d.deps.Fetcher.Fetch(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", w, err)
		}
		if fetched == nil {
			fetched = &models.FetchResult{}
		}
		logger.Info("Fetched provider transactions",
			logging.F(logging.FieldProvider, d.deps.Fetcher.Name()),
			logging.F(logging.FieldCount, len(fetched.Transactions)),
			logging.F("accounts", len(fetched.Accounts)))
	}
	summary.Fetched = len(fetched.Transactions)
	summary.Available = fetched.TotalTransactions

	dir := d.deps.Resolver.Resolve(fetched.Accounts)
	summary.UnmappedMasks = d.deps.Resolver.Unmapped(fetched.Accounts)

	merged, err := d.deps.Merger.Merge(existing, fetched.Transactions, dir)
	if err != nil {
		return nil, fmt.Errorf("merging: %w", err)
	}
	if len(merged.Transactions) == 0 {
		return nil, reconerror.ErrEmptyResult
	}
	summary.Merge = merged.Stats
	summary.NewRows = spanOf(merged.NewRows())

	applier := categorizer.NewApplier(logger, categorizer.NewFrequencyStrategy(model, logger))
	targets := merged.Transactions
	if !d.opts.IncludeLedger {
		targets = merged.NewRows()
	}
	summary.Inference, err = applier.Apply(ctx, targets)
	if err != nil {
		return nil, err
	}
	summary.Total = len(merged.Transactions)

	if opts.DryRun {
		logger.Info("Dry run: output not written", logging.F(logging.FieldFile, d.opts.OutputPath))
	} else {
		if d.deps.Writer == nil {
			return nil, errors.New("no output writer configured")
		}
		if err := d.deps.Writer.Write(ctx, merged.Transactions); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}
	}

	logger.Info("Reconciliation complete",
		logging.F("window", w.String()),
		logging.F("appended", summary.Merge.Appended),
		logging.F("duplicates", summary.Merge.Duplicates),
		logging.F("excluded", summary.Merge.Excluded),
		logging.F("inferred", summary.Inference.Inferred),
		logging.F("total", summary.Total))

	return &Result{Transactions: merged.Transactions, Summary: summary}, nil
}

// AccountStatus is a provider account as the run would see it.
type AccountStatus struct {
	models.AccountMetadata
	// ProviderName is the account name reported by the provider.
	ProviderName string
	Mapped       bool
	Excluded     bool
}

// Accounts fetches the provider's accounts over the last days days and
// reports how each resolves.
func (d *Driver) Accounts(ctx context.Context, days int) ([]AccountStatus, error) {
	if days <= 0 {
		days = 30
	}
	end := dateutils.TruncateDay(d.now())
	w := provider.Window{Start: end.AddDate(0, 0, -days), End: end, Count: 1}

	fetched, err := d.deps.Fetcher.Fetch(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	if fetched == nil {
		fetched = &models.FetchResult{}
	}

	dir := d.deps.Resolver.Resolve(fetched.Accounts)
	out := make([]AccountStatus, 0, len(fetched.Accounts))
	for _, acct := range fetched.Accounts {
		meta := dir[acct.AccountID]
		_, mapped := d.deps.Resolver.DisplayName(acct.Mask)
		out = append(out, AccountStatus{
			AccountMetadata: meta,
			ProviderName:    acct.Name,
			Mapped:          mapped,
			Excluded:        d.deps.Merger.IsExcluded(acct.Mask),
		})
	}
	return out, nil
}

// Explain loads the ledger and returns the category ranking for
// description.
func (d *Driver) Explain(ctx context.Context, description string) ([]categorizer.CategoryCount, error) {
	existing, err := d.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	return categorizer.BuildFrequencyModel(existing, d.opts.CaseSensitive).Ranking(description), nil
}
