package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mysqlTable(t *testing.T, name string) string {
	t.Helper()
	for _, stmt := range mysqlSchema {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+name+" (") {
			return stmt
		}
	}
	require.Failf(t, "table not found", "no DDL for %s", name)
	return ""
}

func TestMySQLItemNamesFoldCaseButKeepAccents(t *testing.T) {
	ddl := mysqlTable(t, "menu_items")
	assert.Contains(t, ddl, "name          VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_0900_as_ci NOT NULL")
	assert.NotContains(t, ddl, "unicode_ci", "unicode_ci would equate Cafe and Café")
	assert.Contains(t, ddl, "CHECK (price_cents BETWEEN 0 AND 99999999)")
}

func TestMySQLRestaurantAndMenuNamesAreBinary(t *testing.T) {
	for _, table := range []string{"restaurants", "menus"} {
		assert.Contains(t, mysqlTable(t, table), "COLLATE utf8mb4_bin", table)
	}
}
