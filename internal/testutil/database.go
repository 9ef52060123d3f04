// Package testutil provides common testing utilities for the project.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nosborn/idcodec/pkg/base37"
	"github.com/nosborn/idcodec/pkg/db"
	"github.com/nosborn/idcodec/pkg/ident"
	"github.com/nosborn/idcodec/pkg/names"
)

// DatabaseSetup holds references to test database resources.
type DatabaseSetup struct {
	FilePath string
}

// SetupTestDatabase connects the db package to a fresh database in a
// temporary directory and creates the registry schema. The connection is
// abandoned when the test finishes.
func SetupTestDatabase(t *testing.T) *DatabaseSetup {
	t.Helper()

	setup := &DatabaseSetup{
		FilePath: filepath.Join(t.TempDir(), "idcodec.sqlite"),
	}

	require.NoError(t, db.Connect(setup.FilePath, false))
	t.Cleanup(func() {
		db.Exit()
	})
	require.NoError(t, db.CreateSchema())

	return setup
}

// CreateTestAccount inserts an account directly, bypassing registration, and
// returns its identity code. encrypt is stored as the password hash verbatim.
func (d *DatabaseSetup) CreateTestAccount(t *testing.T, name, encrypt, status string) ident.Code {
	t.Helper()

	code, err := base37.Encode(names.Normalize(name))
	require.NoError(t, err)
	require.NotZero(t, code)

	_, err = db.Exec(`
		INSERT INTO accounts (code, name, encrypt, status)
		VALUES (?, ?, ?, ?)
	`, int64(code), name, encrypt, status)
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	return code
}

// Column reads a single column of the account stored under code.
func (d *DatabaseSetup) Column(t *testing.T, code ident.Code, column string) any {
	t.Helper()

	var v any
	err := db.QueryRow("SELECT "+column+" FROM accounts WHERE code = ?", int64(code)).Scan(&v)
	require.NoError(t, err)
	return v
}
