// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "LEDGERSYNC"

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Ledger         LedgerConfig         `mapstructure:"ledger" yaml:"ledger"`
	Provider       ProviderConfig       `mapstructure:"provider" yaml:"provider"`
	Accounts       AccountsConfig       `mapstructure:"accounts" yaml:"accounts"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Output         OutputConfig         `mapstructure:"output" yaml:"output"`
}

// LogConfig selects log verbosity and format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LedgerConfig locates the existing ledger.
type LedgerConfig struct {
	Source          string `mapstructure:"source" yaml:"source"`
	Path            string `mapstructure:"path" yaml:"path"`
	Sheet           string `mapstructure:"sheet" yaml:"sheet"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
	Delimiter       string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ProviderConfig selects and authenticates the transaction provider.
type ProviderConfig struct {
	Name           string `mapstructure:"name" yaml:"name"`
	ClientID       string `mapstructure:"client_id" yaml:"-"`
	Secret         string `mapstructure:"secret" yaml:"-"`
	AccessToken    string `mapstructure:"access_token" yaml:"-"`
	Environment    string `mapstructure:"environment" yaml:"environment"`
	Count          int    `mapstructure:"count" yaml:"count"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	FixturePath    string `mapstructure:"fixture_path" yaml:"fixture_path"`
}

// AccountsConfig maps account masks to display names and lists excluded
// masks. Masks in YAML should be quoted so leading zeros survive.
type AccountsConfig struct {
	Names         map[string]string `mapstructure:"names" yaml:"names"`
	NamesFile     string            `mapstructure:"names_file" yaml:"names_file"`
	ExcludedMasks []string          `mapstructure:"excluded_masks" yaml:"excluded_masks"`
}

// CategorizationConfig tunes category inference.
type CategorizationConfig struct {
	CaseSensitive bool `mapstructure:"case_sensitive" yaml:"case_sensitive"`
	IncludeLedger bool `mapstructure:"include_ledger" yaml:"include_ledger"`
}

// OutputConfig describes the output file.
type OutputConfig struct {
	Path      string   `mapstructure:"path" yaml:"path"`
	Delimiter string   `mapstructure:"delimiter" yaml:"delimiter"`
	Columns   []string `mapstructure:"columns" yaml:"columns"`
}

// Ledger sources.
const (
	SourceXLSX   = "xlsx"
	SourceCSV    = "csv"
	SourceSheets = "sheets"
)

// Providers.
const (
	ProviderPlaid   = "plaid"
	ProviderFixture = "fixture"
)

// InitializeConfig loads configuration from defaults, the config file, a
// .env-populated environment and LEDGERSYNC_* variables, in increasing
// priority. configFile overrides the search path when set.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ledger-sync")
		v.AddConfigPath(".ledger-sync")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 5. Plaid credentials keep their conventional names
	plaidEnv := map[string]string{
		"provider.client_id":    "PLAID_CLIENT_ID",
		"provider.secret":       "PLAID_SECRET",
		"provider.access_token": "PLAID_ACCESS_TOKEN",
		"provider.environment":  "PLAID_ENV",
	}
	for key, env := range plaidEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&config)

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Ledger defaults
	v.SetDefault("ledger.source", SourceXLSX)
	v.SetDefault("ledger.path", "Money Master.xlsx")
	v.SetDefault("ledger.sheet", "Chase Transactions")
	v.SetDefault("ledger.spreadsheet_id", "")
	v.SetDefault("ledger.credentials_file", "")
	v.SetDefault("ledger.delimiter", ",")

	// Provider defaults
	v.SetDefault("provider.name", ProviderPlaid)
	v.SetDefault("provider.client_id", "")
	v.SetDefault("provider.secret", "")
	v.SetDefault("provider.access_token", "")
	v.SetDefault("provider.environment", "sandbox")
	v.SetDefault("provider.count", 500)
	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("provider.fixture_path", "")

	// Account defaults
	v.SetDefault("accounts.names", map[string]string{})
	v.SetDefault("accounts.names_file", "")
	v.SetDefault("accounts.excluded_masks", []string{"7550"})

	// Categorization defaults
	v.SetDefault("categorization.case_sensitive", true)
	v.SetDefault("categorization.include_ledger", true)

	// Output defaults
	v.SetDefault("output.path", "raw_data.csv")
	v.SetDefault("output.delimiter", ",")
	v.SetDefault("output.columns", models.Fields())
}

func normalize(config *Config) {
	config.Log.Level = strings.ToLower(strings.TrimSpace(config.Log.Level))
	config.Log.Format = strings.ToLower(strings.TrimSpace(config.Log.Format))
	config.Ledger.Source = strings.ToLower(strings.TrimSpace(config.Ledger.Source))
	config.Provider.Name = strings.ToLower(strings.TrimSpace(config.Provider.Name))
	config.Provider.Environment = strings.ToLower(strings.TrimSpace(config.Provider.Environment))

	masks := config.Accounts.ExcludedMasks[:0]
	for _, m := range config.Accounts.ExcludedMasks {
		if m = strings.TrimSpace(m); m != "" {
			masks = append(masks, m)
		}
	}
	config.Accounts.ExcludedMasks = masks

	for i, col := range config.Output.Columns {
		config.Output.Columns[i] = strings.TrimSpace(col)
	}
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate ledger source
	switch config.Ledger.Source {
	case SourceXLSX, SourceCSV:
		if config.Ledger.Path == "" {
			return fmt.Errorf("ledger.path is required for source %s", config.Ledger.Source)
		}
	case SourceSheets:
		if config.Ledger.SpreadsheetID == "" {
			return fmt.Errorf("ledger.spreadsheet_id is required for source sheets")
		}
	default:
		return fmt.Errorf("invalid ledger source: %s (must be 'xlsx', 'csv' or 'sheets')", config.Ledger.Source)
	}

	if err := validation.IsValidDelimiter(config.Ledger.Delimiter); err != nil {
		return fmt.Errorf("ledger %w", err)
	}
	if err := validation.IsValidDelimiter(config.Output.Delimiter); err != nil {
		return fmt.Errorf("output %w", err)
	}

	// Validate provider
	switch config.Provider.Name {
	case ProviderPlaid:
		if config.Provider.ClientID == "" || config.Provider.Secret == "" {
			return fmt.Errorf("PLAID_CLIENT_ID and PLAID_SECRET required when provider is plaid")
		}
		if config.Provider.AccessToken == "" {
			return fmt.Errorf("PLAID_ACCESS_TOKEN required when provider is plaid")
		}
		if config.Provider.Environment != "sandbox" && config.Provider.Environment != "production" {
			return fmt.Errorf("invalid plaid environment: %s (must be 'sandbox' or 'production')", config.Provider.Environment)
		}
	case ProviderFixture:
		if config.Provider.FixturePath == "" {
			return fmt.Errorf("provider.fixture_path is required when provider is fixture")
		}
	default:
		return fmt.Errorf("invalid provider: %s (must be 'plaid' or 'fixture')", config.Provider.Name)
	}

	if config.Provider.Count < 1 {
		return fmt.Errorf("provider.count must be positive, got: %d", config.Provider.Count)
	}
	if config.Provider.TimeoutSeconds < 1 || config.Provider.TimeoutSeconds > 300 {
		return fmt.Errorf("provider.timeout_seconds must be between 1 and 300, got: %d", config.Provider.TimeoutSeconds)
	}

	if config.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if err := validation.IsValidOutputPath(config.Output.Path); err != nil {
		return err
	}

	for mask := range config.Accounts.Names {
		if err := validation.IsValidMask(mask); err != nil {
			return fmt.Errorf("accounts.names: %w", err)
		}
	}
	for _, mask := range config.Accounts.ExcludedMasks {
		if err := validation.IsValidMask(mask); err != nil {
			return fmt.Errorf("accounts.excluded_masks: %w", err)
		}
	}

	return nil
}

// LedgerDelimiter returns the ledger delimiter as a rune.
func (c *Config) LedgerDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Ledger.Delimiter)
	return r
}

// OutputDelimiter returns the output delimiter as a rune.
func (c *Config) OutputDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Output.Delimiter)
	return r
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
