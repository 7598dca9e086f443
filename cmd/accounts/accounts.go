// Package accounts lists the provider's linked accounts
package accounts

import (
	"context"
	"fmt"

	"fjacquet/ledger-sync/cmd/common"
	"fjacquet/ledger-sync/cmd/root"
	"fjacquet/ledger-sync/internal/logging"

	"github.com/spf13/cobra"
)

var (
	days           int
	recordUnmapped bool
)

// Cmd represents the accounts command
var Cmd = &cobra.Command{
	Use:   "accounts",
	Short: "List linked accounts and their display names",
	Long: `Accounts lists every account the provider reports, with the display name
the ledger will use, and whether the account is excluded from syncing.

With --record-unmapped, masks without a display name are added to the
account names file using the provider's own account name, ready to edit.

Example:
  ledger-sync accounts
  ledger-sync accounts --record-unmapped`,
	RunE: accountsFunc,
}

func init() {
	Cmd.Flags().IntVar(&days, "days", 30, "Number of days to query the provider over")
	Cmd.Flags().BoolVar(&recordUnmapped, "record-unmapped", false, "Add unmapped masks to the account names file")
}

func accountsFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	statuses, err := appContainer.GetDriver().Accounts(ctx, days)
	if err != nil {
		root.Log.WithError(err).Error("Failed to list accounts")
		return err
	}
	common.PrintAccounts(cmd.OutOrStdout(), statuses)

	if !recordUnmapped {
		return nil
	}

	accountStore := appContainer.GetAccountStore()
	names, err := accountStore.LoadAccountNames()
	if err != nil {
		return err
	}
	added := 0
	for _, st := range statuses {
		if st.Mapped || st.Mask == "" {
			continue
		}
		if _, ok := names[st.Mask]; ok {
			continue
		}
		names[st.Mask] = st.ProviderName
		added++
	}
	if added == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No unmapped accounts to record")
		return nil
	}
	if err := accountStore.SaveAccountNames(names); err != nil {
		return fmt.Errorf("failed to save account names: %w", err)
	}
	root.Log.Info("Recorded unmapped accounts",
		logging.F(logging.FieldCount, added),
		logging.F(logging.FieldFile, accountStore.NamesFile))
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d unmapped account(s) in %s\n", added, accountStore.NamesFile)
	return nil
}
