package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumiere-jewels/storefront/app/accounts"
	"github.com/lumiere-jewels/storefront/app/store"
	"github.com/lumiere-jewels/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useSQLite points the CLI at a fresh database file in a temp dir.
func useSQLite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "shop.db")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_DRIVER", store.DriverSQLite)
	t.Setenv("DB_PATH", path)
	t.Setenv("JWT_SECRET", "cli-secret")
	return path
}

func TestRun_AddAdmin(t *testing.T) {
	// Arrange
	path := useSQLite(t)
	args := []string{"add-admin", "-username", "root", "-email", "root@example.com", "-password", "sup3rsecret"}
	var out bytes.Buffer

	// Act
	err := run(args, &out)
	dupErr := run([]string{"add-admin", "-username", "root2", "-email", "root@example.com", "-password", "sup3rsecret"}, &out)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Admin 'root' created")
	assert.ErrorIs(t, dupErr, accounts.ErrEmailTaken, "a failing command returns instead of exiting")

	st, err := store.Open(context.Background(), store.Options{Driver: store.DriverSQLite, Path: path})
	require.NoError(t, err)
	defer st.Close()
	user, err := st.Users.GetByUsername(context.Background(), "root")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestRun_ExportThenImportEmptyCatalog(t *testing.T) {
	// Arrange
	useSQLite(t)
	sheet := filepath.Join(t.TempDir(), "products.xlsx")
	var out bytes.Buffer

	// Act
	exportErr := run([]string{"export-products", "-out", sheet}, &out)
	importErr := run([]string{"import-products", "-in", sheet}, &out)
	adminErr := run([]string{"add-admin", "-username", "root", "-email", "root@example.com", "-password", "sup3rsecret"}, &out)

	// Assert
	require.NoError(t, exportErr)
	_, err := os.Stat(sheet)
	assert.NoError(t, err)

	var ve *models.ValidationError
	require.ErrorAs(t, importErr, &ve, "a header-only sheet has nothing to import")
	assert.Contains(t, ve.Fields, "file")

	assert.NoError(t, adminErr, "the store is usable again after a failed command")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no subcommand", nil},
		{"unknown subcommand", []string{"drop-tables"}},
		{"admin without password", []string{"add-admin", "-username", "root", "-email", "root@example.com"}},
		{"import without file", []string{"import-products"}},
		{"import of a missing file", []string{"import-products", "-in", "missing.xlsx"}},
		{"unknown flag", []string{"export-products", "-format", "csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useSQLite(t)

			err := run(tt.args, &bytes.Buffer{})

			assert.Error(t, err)
		})
	}
}
