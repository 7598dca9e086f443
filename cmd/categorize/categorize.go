// Package categorize explains category inference for a description
package categorize

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/ledger-sync/cmd/common"
	"fjacquet/ledger-sync/cmd/root"
	"fjacquet/ledger-sync/internal/logging"

	"github.com/spf13/cobra"
)

var description string

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize transactions from ledger history",
	Long: `Categorize shows which category a transaction description would receive,
based on how often each category was used for the same description in the
existing ledger. The most frequent category wins; ties go to the category
seen first.

Example:
  ledger-sync categorize --description "STARBUCKS STORE 1234"`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description to categorize")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is required for categorization")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ranking, err := appContainer.GetDriver().Explain(ctx, description)
	if err != nil {
		root.Log.WithError(err).Error("Error categorizing transaction")
		return err
	}

	if len(ranking) > 0 {
		root.Log.Debug("Transaction categorized",
			logging.F(logging.FieldDescription, description),
			logging.F(logging.FieldCategory, ranking[0].Category))
	}
	common.PrintRanking(cmd.OutOrStdout(), description, ranking)
	return nil
}
