// Package repository contains data access logic separated from HTTP handlers.
// The sentinel values below let higher layers such as handlers and the
// importer distinguish failure scenarios. For example, ErrConflict signals
// that a write collided with an existing row on a unique key, which callers
// resolve by re-reading the row that won.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// ErrRestaurantNotFound is returned when a restaurant cannot be found in the DB.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrMenuNotFound is returned when a menu cannot be found in the DB.
var ErrMenuNotFound = errors.New("menu not found")

// ErrMenuItemNotFound is returned when a menu item cannot be found in the DB.
var ErrMenuItemNotFound = errors.New("menu item not found")

// ErrConflict is returned when an insert or update collides with an
// existing row on a unique key.  Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = model.ErrConflict

// ErrCrossRestaurantLink is returned when a menu and a menu item owned by
// different restaurants are linked.
var ErrCrossRestaurantLink = model.ErrCrossRestaurantLink

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique-key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func idsToAny(ids []uint64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
