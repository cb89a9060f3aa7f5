package migration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Customer Accounts", "initial schema")
	require.NoError(t, err)

	assert.Contains(t, mf.UpPath, "add_customer_accounts.up.sql")
	assert.Contains(t, mf.DownPath, "add_customer_accounts.down.sql")

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "Add Customer Accounts")
	assert.Contains(t, string(upContent), "initial schema")

	_, err = os.Stat(mf.DownPath)
	assert.NoError(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Add Customer Accounts", "add_customer_accounts"},
		{"add-ledger-entries", "add_ledger_entries"},
		{"trailing space ", "trailing_space"},
		{"Mixed  --  Separators", "mixed_separators"},
		{"digits123", "digits123"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Empty(t, migrations)

	_, err = CreateMigration(dir, "first", "")
	require.NoError(t, err)

	migrations, err = ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Contains(t, migrations[0], "first")
}
