package model

import "time"

// Restaurant is the top-level owner of menus and menu items.  Deleting a
// restaurant cascades to both.  This struct corresponds to a row in the
// `restaurants` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – trimmed display name, matched case-sensitively.
//  CreatedAt – timestamp when the restaurant was created.
//  UpdatedAt – timestamp of last update.
type Restaurant struct {
	ID        uint64    `db:"id"`                       // restaurants.id
	Name      string    `db:"name" validate:"required"` // restaurants.name
	CreatedAt time.Time `db:"created_at"`               // restaurants.created_at
	UpdatedAt time.Time `db:"updated_at"`               // restaurants.updated_at
}
