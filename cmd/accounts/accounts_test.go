package accounts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-sync/cmd/root"
	"fjacquet/ledger-sync/internal/config"
	"fjacquet/ledger-sync/internal/container"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/store"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "accounts": [
    {"account_id": "acc_chk", "name": "Checking", "mask": "0042", "type": "depository", "subtype": "checking"},
    {"account_id": "acc_card", "name": "Sapphire", "mask": "0199", "type": "credit", "subtype": "credit card"},
    {"account_id": "acc_biz", "name": "Business", "mask": "7550", "type": "depository", "subtype": "checking"}
  ],
  "transactions": []
}`

func setupContainer(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "plaid.json")
	namesFile := filepath.Join(dir, "accounts.yaml")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixtureJSON), 0600))
	require.NoError(t, os.WriteFile(namesFile, []byte("accounts:\n  \"0042\": Joint Checking\n"), 0600))

	cfg := &config.Config{
		Log:      config.LogConfig{Level: "info", Format: "text"},
		Ledger:   config.LedgerConfig{Source: config.SourceCSV, Path: filepath.Join(dir, "ledger.csv"), Delimiter: ","},
		Provider: config.ProviderConfig{Name: config.ProviderFixture, FixturePath: fixturePath},
		Accounts: config.AccountsConfig{NamesFile: namesFile, ExcludedMasks: []string{"7550"}},
		Output:   config.OutputConfig{Path: filepath.Join(dir, "out.csv"), Delimiter: ","},
	}
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	root.SetContainer(c)
	t.Cleanup(func() {
		root.SetContainer(nil)
		days, recordUnmapped = 30, false
	})
	return namesFile
}

func TestAccountsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "accounts", Cmd.Use)
	assert.Contains(t, Cmd.Short, "linked accounts")
	assert.NotNil(t, Cmd.RunE)
	assert.Equal(t, "30", Cmd.Flags().Lookup("days").DefValue)
	assert.Equal(t, "false", Cmd.Flags().Lookup("record-unmapped").DefValue)
}

func TestAccountsCommand_List(t *testing.T) {
	setupContainer(t)

	var out bytes.Buffer
	Cmd.SetOut(&out)
	require.NoError(t, accountsFunc(Cmd, nil))

	assert.Regexp(t, `0042\s+Joint Checking\s+depository/checking\s+yes\s+no`, out.String())
	assert.Regexp(t, `0199\s+-\s+credit/credit card\s+no\s+no`, out.String())
	assert.Regexp(t, `7550\s+-\s+depository/checking\s+no\s+yes`, out.String())
}

func TestAccountsCommand_RecordUnmapped(t *testing.T) {
	namesFile := setupContainer(t)
	recordUnmapped = true

	var out bytes.Buffer
	Cmd.SetOut(&out)
	require.NoError(t, accountsFunc(Cmd, nil))
	assert.Contains(t, out.String(), "Recorded 2 unmapped account(s)")

	names, err := store.NewAccountStore(namesFile, logging.NewMockLogger()).LoadAccountNames()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"0042": "Joint Checking",
		"0199": "Sapphire",
		"7550": "Business",
	}, names)
}

func TestAccountsCommand_NoContainer(t *testing.T) {
	root.SetContainer(nil)
	err := accountsFunc(Cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container not initialized")
}
