package handler

import (
	"time"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// RestaurantRef identifies a restaurant inside menu and item responses.
type RestaurantRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// MenuItemView is a menu item as exposed by the API.  Price is rendered as
// a decimal string so clients never see float rounding.
type MenuItemView struct {
	ID           uint64    `json:"id"`
	RestaurantID uint64    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Price        string    `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MenuView is a menu with the items it lists.
type MenuView struct {
	ID           uint64         `json:"id"`
	RestaurantID *uint64        `json:"restaurant_id"`
	Name         string         `json:"name"`
	Restaurant   *RestaurantRef `json:"restaurant,omitempty"`
	MenuItems    []MenuItemView `json:"menu_items"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// RestaurantView is a restaurant with its menus nested.
type RestaurantView struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Menus     []MenuView `json:"menus"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MenuRef identifies a menu inside a menu item listing.
type MenuRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// MenuItemDetail is a menu item with its owner and the menus listing it.
type MenuItemDetail struct {
	MenuItemView
	Restaurant *RestaurantRef `json:"restaurant"`
	Menus      []MenuRef      `json:"menus"`
}

func itemView(it *model.MenuItem) MenuItemView {
	return MenuItemView{
		ID:           it.ID,
		RestaurantID: it.RestaurantID,
		Name:         it.Name,
		Price:        model.FormatCents(it.PriceCents),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func menuView(m *model.Menu, items []*model.MenuItem, owner *model.Restaurant) MenuView {
	v := MenuView{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		MenuItems:    make([]MenuItemView, 0, len(items)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if owner != nil {
		v.Restaurant = &RestaurantRef{ID: owner.ID, Name: owner.Name}
	}
	for _, it := range items {
		v.MenuItems = append(v.MenuItems, itemView(it))
	}
	return v
}
