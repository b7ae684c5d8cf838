package model

import (
	"fmt"
	"math"
	"time"
)

// MenuItem is a priced dish owned by exactly one restaurant.  It can be
// linked to any number of that restaurant's menus through MenuMenuItem.
// Names are unique per restaurant ignoring case.  Prices are stored as
// integer cents.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Name         – trimmed name as first imported; never case-folded.
//  PriceCents   – price in cents, between 0 and MaxPriceCents.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type MenuItem struct {
	ID           uint64    `db:"id"`                                        // menu_items.id
	RestaurantID uint64    `db:"restaurant_id" validate:"required"`         // menu_items.restaurant_id
	Name         string    `db:"name" validate:"required"`                  // menu_items.name
	PriceCents   int64     `db:"price_cents" validate:"gte=0,lte=99999999"` // menu_items.price_cents
	CreatedAt    time.Time `db:"created_at"`                                // menu_items.created_at
	UpdatedAt    time.Time `db:"updated_at"`                                // menu_items.updated_at
}

// Price returns the price as a decimal amount.
func (i *MenuItem) Price() float64 {
	return CentsToPrice(i.PriceCents)
}

// MenuMenuItem joins a menu to a menu item.  Each pair is stored once and
// both sides must belong to the same restaurant.
type MenuMenuItem struct {
	ID         uint64    `db:"id"`
	MenuID     uint64    `db:"menu_id" validate:"required"`
	MenuItemID uint64    `db:"menu_item_id" validate:"required"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// MaxPriceCents is the largest storable price, 999999.99.
const MaxPriceCents = 99_999_999

// PriceToCents rounds a decimal price to whole cents.  ok is false when the
// amount is not finite or its magnitude exceeds MaxPriceCents.
func PriceToCents(p float64) (cents int64, ok bool) {
	c := math.Round(p * 100)
	if math.IsNaN(c) || math.Abs(c) > MaxPriceCents {
		return 0, false
	}
	return int64(c), true
}

// CentsToPrice converts cents back to a decimal amount.
func CentsToPrice(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCents renders cents with two decimals, e.g. 1599 -> "15.99".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
