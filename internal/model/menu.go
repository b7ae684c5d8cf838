package model

import "time"

// Menu is a named grouping of menu items inside a restaurant.  The
// restaurant reference is nullable at rest but the import path always
// sets it.  Deleting a menu removes its links, never the items.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant (nil if unassigned).
//  Name         – trimmed name, unique per restaurant (case-sensitive).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Menu struct {
	ID           uint64    `db:"id"`                       // menus.id
	RestaurantID *uint64   `db:"restaurant_id"`            // menus.restaurant_id (nullable)
	Name         string    `db:"name" validate:"required"` // menus.name
	CreatedAt    time.Time `db:"created_at"`               // menus.created_at
	UpdatedAt    time.Time `db:"updated_at"`               // menus.updated_at
}

// BelongsTo reports whether the menu is owned by the given restaurant.
func (m *Menu) BelongsTo(restaurantID uint64) bool {
	return m.RestaurantID != nil && *m.RestaurantID == restaurantID
}
