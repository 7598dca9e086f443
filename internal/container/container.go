// Package container provides dependency injection for the ledger-sync
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/ledger-sync/internal/accounts"
	"fjacquet/ledger-sync/internal/batch"
	"fjacquet/ledger-sync/internal/common"
	"fjacquet/ledger-sync/internal/config"
	"fjacquet/ledger-sync/internal/ledger"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/provider"
	"fjacquet/ledger-sync/internal/reconcile"
	"fjacquet/ledger-sync/internal/store"
)

// Container holds all application dependencies and provides methods to
// access them. It is immutable after creation.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	accountStore *store.AccountStore
	accountNames map[string]string
	source       ledger.Source
	fetcher      provider.Fetcher
	writer       *common.CSVWriter
	driver       *batch.Driver
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	return NewContainerWithLogger(cfg, logger)
}

// NewContainerWithLogger wires dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	accountStore := store.NewAccountStore(cfg.Accounts.NamesFile, logger)
	names, err := accountStore.LoadAccountNames()
	if err != nil {
		return nil, fmt.Errorf("failed to load account names: %w", err)
	}
	// Names from the main config take precedence over the names file.
	for mask, name := range cfg.Accounts.Names {
		names[mask] = name
	}

	source, err := newLedgerSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	fetcher, err := provider.New(provider.Config{
		Name:           cfg.Provider.Name,
		ClientID:       cfg.Provider.ClientID,
		Secret:         cfg.Provider.Secret,
		AccessToken:    cfg.Provider.AccessToken,
		Environment:    cfg.Provider.Environment,
		TimeoutSeconds: cfg.Provider.TimeoutSeconds,
		FixturePath:    cfg.Provider.FixturePath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	writer, err := common.NewCSVWriter(cfg.Output.Path, cfg.OutputDelimiter(), cfg.Output.Columns, logger)
	if err != nil {
		return nil, err
	}

	driver, err := batch.NewDriver(batch.Deps{
		Source:   source,
		Fetcher:  fetcher,
		Resolver: accounts.NewResolver(names, logger),
		Merger:   reconcile.NewMerger(cfg.Accounts.ExcludedMasks, logger),
		Writer:   writer,
		Logger:   logger,
	}, batch.Options{
		Count:         cfg.Provider.Count,
		CaseSensitive: cfg.Categorization.CaseSensitive,
		IncludeLedger: cfg.Categorization.IncludeLedger,
		OutputPath:    cfg.Output.Path,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldSource, source.Name()),
		logging.F(logging.FieldProvider, fetcher.Name()),
		logging.F("account_names", len(names)))

	return &Container{
		logger:       logger,
		config:       cfg,
		accountStore: accountStore,
		accountNames: names,
		source:       source,
		fetcher:      fetcher,
		writer:       writer,
		driver:       driver,
	}, nil
}

func newLedgerSource(cfg *config.Config, logger logging.Logger) (ledger.Source, error) {
	switch cfg.Ledger.Source {
	case config.SourceXLSX, "":
		return ledger.NewXLSXSource(cfg.Ledger.Path, cfg.Ledger.Sheet, logger), nil
	case config.SourceCSV:
		return ledger.NewCSVSource(cfg.Ledger.Path, cfg.LedgerDelimiter(), logger), nil
	case config.SourceSheets:
		return ledger.NewSheetsSource(cfg.Ledger.SpreadsheetID, cfg.Ledger.Sheet, cfg.Ledger.CredentialsFile, logger), nil
	default:
		return nil, fmt.Errorf("unknown ledger source: %s", cfg.Ledger.Source)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDriver returns the reconciliation driver.
func (c *Container) GetDriver() *batch.Driver {
	return c.driver
}

// GetAccountStore returns the account names store.
func (c *Container) GetAccountStore() *store.AccountStore {
	return c.accountStore
}

// GetAccountNames returns a copy of the effective mask -> name table.
func (c *Container) GetAccountNames() map[string]string {
	result := make(map[string]string, len(c.accountNames))
	for k, v := range c.accountNames {
		result[k] = v
	}
	return result
}

// GetLedgerSource returns the configured ledger source.
func (c *Container) GetLedgerSource() ledger.Source {
	return c.source
}

// GetFetcher returns the configured provider.
func (c *Container) GetFetcher() provider.Fetcher {
	return c.fetcher
}

// GetWriter returns the output writer.
func (c *Container) GetWriter() *common.CSVWriter {
	return c.writer
}
