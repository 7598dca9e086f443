package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-sync/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCSVSource_Load(t *testing.T) {
	path := writeFile(t, "ledger.csv", "\ufeffdate,description,amount,transaction_id,category\n"+
		"2024-03-01,\"COFFEE SHOP, DOWNTOWN\",4.50,tx_1,Dining\n"+
		"2024-03-02,GROCER,52.10,tx_2\n")

	src := NewCSVSource(path, 0, logging.NewMockLogger())
	table, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "date", table.Header[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "COFFEE SHOP, DOWNTOWN", table.Rows[0][1])
	assert.Len(t, table.Rows[1], 4)

	txs, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Dining", txs[0].Category)
	assert.Equal(t, "", txs[1].Category)
}

func TestCSVSource_Delimiter(t *testing.T) {
	path := writeFile(t, "ledger.csv", "date;description;transaction_id;category\n2024-03-01;A,B;tx_1;Misc\n")

	table, err := NewCSVSource(path, ';', logging.NewMockLogger()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01", "A,B", "tx_1", "Misc"}, table.Rows[0])
}

func TestCSVSource_EmptyFile(t *testing.T) {
	path := writeFile(t, "ledger.csv", "")

	table, err := NewCSVSource(path, ',', logging.NewMockLogger()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table.Header)
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), ',', logging.NewMockLogger()).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
