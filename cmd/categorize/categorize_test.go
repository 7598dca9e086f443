package categorize

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-sync/cmd/root"
	"fjacquet/ledger-sync/internal/config"
	"fjacquet/ledger-sync/internal/container"
	"fjacquet/ledger-sync/internal/logging"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerCSV = `date,description,transaction_id,category
2024-03-01,COFFEE SHOP,tx_a,Groceries
2024-03-02,COFFEE SHOP,tx_b,Dining
2024-03-03,COFFEE SHOP,tx_c,Dining
2024-03-04,coffee shop,tx_d,Travel
`

func setupContainer(t *testing.T, caseSensitive bool) {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(ledgerPath, []byte(ledgerCSV), 0600))

	cfg := &config.Config{
		Log:            config.LogConfig{Level: "info", Format: "text"},
		Ledger:         config.LedgerConfig{Source: config.SourceCSV, Path: ledgerPath, Delimiter: ","},
		Provider:       config.ProviderConfig{Name: config.ProviderFixture, FixturePath: filepath.Join(dir, "unused.json")},
		Accounts:       config.AccountsConfig{NamesFile: filepath.Join(dir, "accounts.yaml")},
		Categorization: config.CategorizationConfig{CaseSensitive: caseSensitive, IncludeLedger: true},
		Output:         config.OutputConfig{Path: filepath.Join(dir, "out.csv"), Delimiter: ","},
	}
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	root.SetContainer(c)
	t.Cleanup(func() {
		root.SetContainer(nil)
		description = ""
	})
}

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize", Cmd.Use)
	assert.Contains(t, Cmd.Short, "Categorize transactions")
	assert.Contains(t, Cmd.Long, "most frequent category wins")
	assert.NotNil(t, Cmd.RunE)
}

func TestCategorizeCommand_Flags(t *testing.T) {
	flag := Cmd.Flags().Lookup("description")
	require.NotNil(t, flag)
	assert.Equal(t, "d", flag.Shorthand)
	assert.Contains(t, flag.Usage, "description")
}

func TestCategorizeCommand_Ranking(t *testing.T) {
	tests := []struct {
		name          string
		caseSensitive bool
		input         string
		expectTop     string
		expectNone    bool
	}{
		{name: "most frequent wins", caseSensitive: true, input: "COFFEE SHOP", expectTop: "Dining"},
		{name: "case sensitive miss", caseSensitive: true, input: "Coffee Shop", expectNone: true},
		{name: "case insensitive hit", caseSensitive: false, input: "Coffee Shop", expectTop: "Dining"},
		{name: "unknown description", caseSensitive: true, input: "BOOKSTORE", expectNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupContainer(t, tt.caseSensitive)
			description = tt.input

			var out bytes.Buffer
			Cmd.SetOut(&out)
			require.NoError(t, categorizeFunc(Cmd, nil))

			if tt.expectNone {
				assert.Contains(t, out.String(), "No category history")
				return
			}
			assert.Contains(t, out.String(), "*  "+tt.expectTop)
		})
	}
}

func TestCategorizeCommand_BlankDescription(t *testing.T) {
	setupContainer(t, true)
	description = "   "
	err := categorizeFunc(Cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}
