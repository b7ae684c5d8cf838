// Package dbtest provides an in-memory SQLite catalog database for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-catalog/internal/database"
)

// New opens a private in-memory database with the catalog schema.  The
// pool is pinned to one connection because every new connection to
// :memory: would see an empty database.
func New(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db))
	return db
}
