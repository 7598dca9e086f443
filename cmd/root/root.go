// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/ledger-sync/internal/config"
	"fjacquet/ledger-sync/internal/container"
	"fjacquet/ledger-sync/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "text"))

	// ConfigFile is the path given with --config
	ConfigFile string

	// LogLevel and LogFormat override the configured logging when set
	LogLevel  string
	LogFormat string

	appContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger-sync",
		Short: "A CLI tool to sync bank transactions into a personal ledger.",
		Long: `ledger-sync pulls recent transactions from the bank aggregator, appends the
ones the ledger does not have yet, fills in missing categories from the
ledger's own history and writes the result as a CSV file.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledger-sync!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initApp,
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.ledger-sync and the working directory)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format (text or json)")
}

func initApp(cmd *cobra.Command, args []string) error {
	if appContainer != nil {
		return nil
	}

	if _, err := config.LoadEnv(Log); err != nil {
		Log.WithError(err).Warn("Failed to load environment file")
	}

	cfg, err := config.InitializeConfig(ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}
	if LogFormat != "" {
		cfg.Log.Format = LogFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	SetContainer(c)
	return nil
}

// SetContainer installs c as the application container and switches the
// shared logger to the container's logger.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}

// GetContainer returns the application container, or nil before the root
// command's pre-run has executed.
func GetContainer() *container.Container {
	return appContainer
}
