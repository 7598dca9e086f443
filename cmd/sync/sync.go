// Package sync handles the fetch-merge-categorize run
package sync

import (
	"context"
	"fmt"
	"time"

	"fjacquet/ledger-sync/cmd/common"
	"fjacquet/ledger-sync/cmd/root"
	"fjacquet/ledger-sync/internal/batch"
	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/report"

	"github.com/spf13/cobra"
)

var (
	startDate  string
	endDate    string
	dryRun     bool
	reportPath string
)

// Cmd represents the sync command
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new transactions and rebuild the ledger CSV",
	Long: `Sync loads the existing ledger, fetches transactions from the provider since
the latest ledger date, appends the ones not already present, fills missing
categories from the ledger's history and writes the result.

Example:
  ledger-sync sync
  ledger-sync sync --start-date 2024-03-01 --end-date 2024-03-31 --dry-run
  ledger-sync sync --report runs/latest.json`,
	RunE: syncFunc,
}

func init() {
	Cmd.Flags().StringVarP(&startDate, "start-date", "s", "", "First day to fetch (default: day after the latest ledger date)")
	Cmd.Flags().StringVarP(&endDate, "end-date", "e", "", "Last day to fetch (default: today)")
	Cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Run everything but do not write the output file")
	Cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Also write a run report (.json, .yaml or .yml)")
}

func syncFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	opts := batch.RunOptions{DryRun: dryRun}
	var err error
	if opts.Start, err = parseFlagDate("start-date", startDate); err != nil {
		return err
	}
	if opts.End, err = parseFlagDate("end-date", endDate); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := appContainer.GetDriver().Run(ctx, opts)
	if err != nil {
		root.Log.WithError(err).Error("Sync failed")
		return err
	}

	root.Log.Info("Sync completed",
		logging.F(logging.FieldRunID, result.Summary.RunID),
		logging.F(logging.FieldCount, result.Summary.Merge.Appended))
	common.PrintSummary(cmd.OutOrStdout(), result.Summary)

	if reportPath != "" {
		if err := report.NewReportGenerator(root.Log).WriteReport(result.Summary, reportPath); err != nil {
			return err
		}
	}
	return nil
}

func parseFlagDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, _, err := dateutils.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return &t, nil
}
